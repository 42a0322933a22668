package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hivemart/hivemart-backend/api/routes"
	"github.com/hivemart/hivemart-backend/internal/cart"
	"github.com/hivemart/hivemart-backend/internal/catalog"
	"github.com/hivemart/hivemart-backend/internal/identity"
	"github.com/hivemart/hivemart-backend/internal/wishlist"
	"github.com/hivemart/hivemart-backend/pkg/config"
	"github.com/hivemart/hivemart-backend/pkg/db"
	"github.com/hivemart/hivemart-backend/pkg/localstore"
	"github.com/hivemart/hivemart-backend/pkg/logger"
	"github.com/hivemart/hivemart-backend/pkg/metrics"
	"github.com/hivemart/hivemart-backend/pkg/migrate"
	"github.com/hivemart/hivemart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	slots, err := localstore.OpenSQLite(cfg.LocalStore.Path)
	if err != nil {
		logg.Error(context.Background(), "failed to open local slot store", err)
		os.Exit(1)
	}
	defer func() {
		if err := slots.Close(); err != nil {
			logg.Error(context.Background(), "error closing local slot store", err)
		}
	}()

	cartMetrics := metrics.NewCartMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	identityService, err := identity.NewService(identity.ServiceOptions{
		Users:    identity.NewRepository(dbClient.DB()),
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(slots, catalogService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	cartManager := cart.NewManager(slots, logg, cartMetrics)

	remoteStore, err := cart.NewRedisRemoteStore(redisClient, cfg.Cart.RemoteKeyPrefix)
	if err != nil {
		logg.Error(context.Background(), "failed to create remote cart store", err)
		os.Exit(1)
	}
	cartSyncer, err := cart.NewSyncer(cart.SyncerOptions{
		Remote:  remoteStore,
		Logger:  logg,
		Metrics: cartMetrics,
		Timeout: cfg.Cart.SyncTimeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart syncer", err)
		os.Exit(1)
	}

	// Sign-in transitions reconcile the session cart with the account cart.
	identityService.OnSignIn(func(ctx context.Context, event identity.SignIn) error {
		if event.SessionID == "" {
			return nil
		}
		return cartSyncer.Sync(ctx, cartManager.ForSession(event.SessionID), event.UserID)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			identityService,
			catalogService,
			cartManager,
			cartSyncer,
			wishlistService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
