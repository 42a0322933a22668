package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hivemart/hivemart-backend/api/controllers"
	"github.com/hivemart/hivemart-backend/api/middleware"
	"github.com/hivemart/hivemart-backend/internal/cart"
	"github.com/hivemart/hivemart-backend/internal/catalog"
	"github.com/hivemart/hivemart-backend/internal/identity"
	"github.com/hivemart/hivemart-backend/internal/wishlist"
	"github.com/hivemart/hivemart-backend/pkg/config"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	identityService identity.Service,
	catalogService catalog.Service,
	cartManager *cart.Manager,
	cartSyncer *cart.Syncer,
	wishlistService *wishlist.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Post("/register", controllers.AuthRegister(identityService, logg))
		r.Post("/login", controllers.AuthLogin(identityService, logg))
		r.With(middleware.Auth(identityService, logg)).Get("/me", controllers.AuthMe(identityService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(catalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(identityService, logg))
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Put("/{productId}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.ProductArchive(catalogService, logg))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Use(middleware.OptionalAuth(identityService, logg))

		r.Get("/", controllers.CartFetch(cartManager, logg))
		r.Delete("/", controllers.CartClear(cartManager, logg))
		r.Post("/items", controllers.CartAddItem(cartManager, catalogService, logg))
		r.Patch("/items/{slot}", controllers.CartUpdateItem(cartManager, logg))
		r.Delete("/items/{slot}", controllers.CartRemoveItem(cartManager, logg))
		r.Post("/drawer", controllers.CartDrawer(cartManager, logg))
		r.Post("/sync", controllers.CartSync(cartManager, cartSyncer, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Get("/", controllers.WishlistList(wishlistService, logg))
		r.Post("/", controllers.WishlistAddItem(wishlistService, logg))
		r.Delete("/{productId}", controllers.WishlistRemoveItem(wishlistService, logg))
	})

	return r
}
