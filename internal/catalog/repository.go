package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows List results.
type ListFilter struct {
	Category string
	Limit    int
	Offset   int
}

// FindByID loads a product with its variants and discount tiers.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("BulkDiscounts").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads a product by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("BulkDiscounts").
		First(&product, "slug = ?", strings.TrimSpace(slug)).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns active products, optionally filtered by category.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("BulkDiscounts").
		Where("is_active = ?", true).
		Order("created_at DESC")

	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product with its nested variants and tiers.
func (r *Repository) Create(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update saves the product row and replaces nested associations.
func (r *Repository) Update(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&Variant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&BulkDiscount{}).Error; err != nil {
			return err
		}
		return tx.Save(product).Error
	})
}

// Archive soft-disables a product without touching carts that snapshot it.
func (r *Repository) Archive(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
