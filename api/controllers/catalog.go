package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hivemart/hivemart-backend/api/responses"
	"github.com/hivemart/hivemart-backend/api/validators"
	"github.com/hivemart/hivemart-backend/internal/catalog"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

type productVariantPayload struct {
	Name    string          `json:"name" validate:"required"`
	Weight  decimal.Decimal `json:"weight"`
	Unit    string          `json:"unit" validate:"required"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"in_stock"`
}

type bulkDiscountPayload struct {
	MinQuantity     int             `json:"min_quantity" validate:"min=1"`
	DiscountPercent decimal.Decimal `json:"discount_percentage"`
}

type productPayload struct {
	Slug          string                  `json:"slug" validate:"required"`
	Name          string                  `json:"name" validate:"required"`
	Description   string                  `json:"description"`
	Category      string                  `json:"category"`
	ImageURL      *string                 `json:"image_url"`
	Price         decimal.Decimal         `json:"price"`
	OriginalPrice *decimal.Decimal        `json:"original_price"`
	InStock       bool                    `json:"in_stock"`
	BaseUnit      *string                 `json:"base_unit"`
	MinOrderQty   int                     `json:"min_order_qty"`
	Variants      []productVariantPayload `json:"variants" validate:"dive"`
	BulkDiscounts []bulkDiscountPayload   `json:"bulk_discounts" validate:"dive"`
}

// ProductList returns active catalog products, optionally filtered by category.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products, err := svc.ListProducts(ctx, catalog.ListFilter{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductDetail resolves a product by UUID, falling back to slug lookup so
// storefront URLs stay pretty.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw := strings.TrimSpace(chi.URLParam(r, "productId"))
		if raw == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var (
			product *catalog.Product
			err     error
		)
		if id, parseErr := uuid.Parse(raw); parseErr == nil {
			product, err = svc.GetProduct(ctx, id)
		} else {
			product, err = svc.GetProductBySlug(ctx, raw)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCreate registers a new catalog product.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload productPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product := productFromPayload(payload)
		if err := svc.CreateProduct(ctx, product); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate replaces a product's attributes, variants, and discount tiers.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload productPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product := productFromPayload(payload)
		product.ID = id
		if err := svc.UpdateProduct(ctx, product); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductArchive deactivates a product without deleting its rows.
func ProductArchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.ArchiveProduct(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"archived": true})
	}
}

func productFromPayload(payload productPayload) *catalog.Product {
	minOrder := payload.MinOrderQty
	if minOrder <= 0 {
		minOrder = 1
	}

	product := &catalog.Product{
		Slug:          strings.TrimSpace(payload.Slug),
		Name:          strings.TrimSpace(payload.Name),
		Description:   payload.Description,
		Category:      strings.TrimSpace(payload.Category),
		ImageURL:      payload.ImageURL,
		Price:         payload.Price,
		OriginalPrice: payload.OriginalPrice,
		InStock:       payload.InStock,
		BaseUnit:      payload.BaseUnit,
		MinOrderQty:   minOrder,
		IsActive:      true,
	}
	for _, v := range payload.Variants {
		product.Variants = append(product.Variants, catalog.Variant{
			Name:    strings.TrimSpace(v.Name),
			Weight:  v.Weight,
			Unit:    v.Unit,
			Price:   v.Price,
			InStock: v.InStock,
		})
	}
	for _, d := range payload.BulkDiscounts {
		product.BulkDiscounts = append(product.BulkDiscounts, catalog.BulkDiscount{
			MinQuantity:     d.MinQuantity,
			DiscountPercent: d.DiscountPercent,
		})
	}
	return product
}
