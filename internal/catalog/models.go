package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog record. Immutable from the cart's perspective: the
// cart engine only ever reads snapshots of it.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug          string    `gorm:"uniqueIndex;not null"`
	Name          string    `gorm:"not null"`
	Description   string
	Category      string `gorm:"index"`
	ImageURL      *string
	Price         decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Rating        float64          `gorm:"type:numeric(3,2);default:0"`
	ReviewCount   int              `gorm:"default:0"`
	InStock       bool             `gorm:"default:true"`
	BaseUnit      *string
	MinOrderQty   int  `gorm:"default:1"`
	IsActive      bool `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Variants      []Variant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BulkDiscounts []BulkDiscount `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName keeps gorm aligned with the goose schema.
func (Product) TableName() string { return "products" }

// Variant is a weight/size option with an independent price and stock flag.
type Variant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	Weight    decimal.Decimal `gorm:"type:numeric(10,3);not null"`
	Unit      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	InStock   bool            `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Variant) TableName() string { return "product_variants" }

// BulkDiscount is a quantity-tiered percentage discount row.
type BulkDiscount struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	MinQuantity     int             `gorm:"not null"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	CreatedAt       time.Time
}

func (BulkDiscount) TableName() string { return "product_bulk_discounts" }
