package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/hivemart/hivemart-backend/internal/cart"
	"github.com/hivemart/hivemart-backend/internal/catalog"
	"github.com/hivemart/hivemart-backend/internal/identity"
	"github.com/hivemart/hivemart-backend/internal/wishlist"
	"github.com/hivemart/hivemart-backend/pkg/config"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/localstore"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

type fakeIdentity struct{}

func (fakeIdentity) Register(context.Context, string, string, string, string) (*identity.Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}
func (fakeIdentity) Login(context.Context, string, string, string) (*identity.Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}
func (fakeIdentity) Verify(context.Context, string) (*identity.AccessTokenClaims, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
}
func (fakeIdentity) GetUser(context.Context, string) (*identity.User, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}
func (fakeIdentity) OnSignIn(identity.SignInHook) {}

type fakeCatalog struct{}

func (fakeCatalog) ListProducts(context.Context, catalog.ListFilter) ([]catalog.Product, error) {
	return []catalog.Product{}, nil
}
func (fakeCatalog) GetProduct(context.Context, uuid.UUID) (*catalog.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}
func (fakeCatalog) GetProductBySlug(context.Context, string) (*catalog.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}
func (fakeCatalog) CreateProduct(context.Context, *catalog.Product) error { return nil }
func (fakeCatalog) UpdateProduct(context.Context, *catalog.Product) error { return nil }
func (fakeCatalog) ArchiveProduct(context.Context, uuid.UUID) error       { return nil }
func (fakeCatalog) ResolveSelection(context.Context, uuid.UUID, string) (cart.Product, *cart.Variant, error) {
	return cart.Product{}, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

type fakeRemote struct{}

func (fakeRemote) Get(context.Context, string) (cart.RemoteCart, error) {
	return cart.RemoteCart{}, cart.ErrRemoteNotFound
}
func (fakeRemote) Upsert(context.Context, string, cart.RemoteCart) error { return nil }

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test"})
	slots := localstore.NewMemoryStore()

	wishlistService, err := wishlist.NewService(slots, fakeCatalog{}, logg)
	if err != nil {
		t.Fatalf("wishlist service: %v", err)
	}
	syncer, err := cart.NewSyncer(cart.SyncerOptions{Remote: fakeRemote{}})
	if err != nil {
		t.Fatalf("syncer: %v", err)
	}

	return NewRouter(
		&config.Config{},
		logg,
		nil,
		nil,
		fakeIdentity{},
		fakeCatalog{},
		cart.NewManager(slots, logg, nil),
		syncer,
		wishlistService,
	)
}

func TestRouterHealthLive(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest("GET", "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouterProtectsAuthMe(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRouterCartRoundTrip(t *testing.T) {
	t.Parallel()

	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/cart/", nil)
	req.Header.Set("X-Session-Id", "router-sess")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Session-Id"); got != "router-sess" {
		t.Fatalf("session header = %q", got)
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
