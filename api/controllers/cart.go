package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hivemart/hivemart-backend/api/middleware"
	"github.com/hivemart/hivemart-backend/api/responses"
	"github.com/hivemart/hivemart-backend/api/validators"
	"github.com/hivemart/hivemart-backend/internal/cart"
	"github.com/hivemart/hivemart-backend/internal/catalog"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

type addCartItemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity"`
}

type drawerPayload struct {
	Open bool `json:"open"`
}

type cartItemView struct {
	Slot               string          `json:"slot"`
	Product            cart.Product    `json:"product"`
	Variant            *cart.Variant   `json:"variant,omitempty"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EffectiveUnitPrice decimal.Decimal `json:"effective_unit_price"`
	Subtotal           decimal.Decimal `json:"subtotal"`
}

type cartView struct {
	Items      []cartItemView  `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	DrawerOpen bool            `json:"drawer_open"`
}

func renderCart(store *cart.Store) cartView {
	items := store.Items()
	view := cartView{
		Items:      make([]cartItemView, 0, len(items)),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
		DrawerOpen: store.DrawerOpen(),
	}
	for _, item := range items {
		view.Items = append(view.Items, cartItemView{
			Slot:               item.Slot(),
			Product:            item.Product,
			Variant:            item.Variant,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice(),
			EffectiveUnitPrice: cart.EffectivePrice(item),
			Subtotal:           cart.Subtotal(item),
		})
	}
	return view
}

func sessionStore(r *http.Request, manager *cart.Manager) (*cart.Store, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return manager.ForSession(sessionID), nil
}

// CartFetch returns the session's cart with derived totals and per-line
// effective prices.
func CartFetch(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(store))
	}
}

// CartAddItem resolves the product selection against the catalog and merges
// it into the session's cart.
func CartAddItem(manager *cart.Manager, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, variant, err := catalogSvc.ResolveSelection(ctx, productID, strings.TrimSpace(payload.VariantID))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.AddItem(product, variant, payload.Quantity)
		responses.WriteSuccess(w, renderCart(store))
	}
}

// CartUpdateItem sets a slot's quantity. Zero or negative removes the slot.
func CartUpdateItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		slot := strings.TrimSpace(chi.URLParam(r, "slot"))
		if slot == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slot is required"))
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.UpdateQuantity(slot, payload.Quantity)
		responses.WriteSuccess(w, renderCart(store))
	}
}

// CartRemoveItem drops a slot from the cart. Unknown slots are a no-op.
func CartRemoveItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		slot := strings.TrimSpace(chi.URLParam(r, "slot"))
		if slot == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slot is required"))
			return
		}

		store.RemoveItem(slot)
		responses.WriteSuccess(w, renderCart(store))
	}
}

// CartClear empties the session's cart.
func CartClear(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.Clear()
		responses.WriteSuccess(w, renderCart(store))
	}
}

// CartDrawer toggles the drawer visibility flag. Purely presentational: it
// never touches cart contents.
func CartDrawer(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload drawerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if payload.Open {
			store.OpenDrawer()
		} else {
			store.CloseDrawer()
		}
		responses.WriteSuccess(w, renderCart(store))
	}
}

// CartSync reconciles the session's cart with the signed-in user's remote
// cart. Requires authentication; sync failures surface as retryable errors
// while the local cart stays authoritative.
func CartSync(manager *cart.Manager, syncer *cart.Syncer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to sync the cart"))
			return
		}

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := syncer.Sync(ctx, store, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(store))
	}
}
