package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hivemart/hivemart-backend/internal/cart"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/pagination"
)

// Service exposes catalog reads for the storefront and CRUD for the admin
// panel. The cart engine consumes products only through Snapshot and
// ResolveSelection.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) ([]Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	UpdateProduct(ctx context.Context, product *Product) error
	ArchiveProduct(ctx context.Context, id uuid.UUID) error
	ResolveSelection(ctx context.Context, productID uuid.UUID, variantID string) (cart.Product, *cart.Variant, error)
}

// productSource is the persistence surface the service needs; satisfied by
// *Repository and stubbed in tests.
type productSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Archive(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo productSource
}

// NewService builds a catalog service over the repository.
func NewService(repo productSource) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	page := pagination.Normalize(pagination.Params{Limit: filter.Limit, Offset: filter.Offset})
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, product *Product) error {
	if product == nil || product.Name == "" || product.Slug == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name and slug are required")
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return nil
}

func (s *service) UpdateProduct(ctx context.Context, product *Product) error {
	if product == nil || product.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return nil
}

func (s *service) ArchiveProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive product")
	}
	return nil
}

// ResolveSelection loads the product, verifies availability, and returns the
// immutable snapshot plus the selected variant for the cart engine.
func (s *service) ResolveSelection(ctx context.Context, productID uuid.UUID, variantID string) (cart.Product, *cart.Variant, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return cart.Product{}, nil, err
	}
	if !product.IsActive {
		return cart.Product{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	snapshot := Snapshot(product)

	if variantID == "" {
		if !product.InStock {
			return cart.Product{}, nil, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
		}
		return snapshot, nil, nil
	}

	for i := range snapshot.Variants {
		if snapshot.Variants[i].ID != variantID {
			continue
		}
		if !snapshot.Variants[i].InStock {
			return cart.Product{}, nil, pkgerrors.New(pkgerrors.CodeConflict, "variant is out of stock")
		}
		selected := snapshot.Variants[i]
		return snapshot, &selected, nil
	}
	return cart.Product{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown variant for product")
}

// Snapshot converts a catalog record into the read-only shape the cart
// engine carries on line items.
func Snapshot(product *Product) cart.Product {
	snapshot := cart.Product{
		ID:            product.ID.String(),
		Name:          product.Name,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Category:      product.Category,
		MinOrderQty:   product.MinOrderQty,
		InStock:       product.InStock,
	}
	if product.ImageURL != nil {
		snapshot.ImageURL = *product.ImageURL
	}
	if product.BaseUnit != nil {
		snapshot.BaseUnit = *product.BaseUnit
	}
	for _, variant := range product.Variants {
		snapshot.Variants = append(snapshot.Variants, cart.Variant{
			ID:      variant.ID.String(),
			Name:    variant.Name,
			Weight:  variant.Weight,
			Unit:    variant.Unit,
			Price:   variant.Price,
			InStock: variant.InStock,
		})
	}
	for _, tier := range product.BulkDiscounts {
		snapshot.BulkDiscounts = append(snapshot.BulkDiscounts, cart.BulkDiscount{
			MinQuantity: tier.MinQuantity,
			Percent:     tier.DiscountPercent,
		})
	}
	return snapshot
}
