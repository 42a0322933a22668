package cart

import "github.com/shopspring/decimal"

// Product is the immutable catalog snapshot a line item carries. The cart
// only ever reads product data; the catalog is never mutated from here.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      string           `json:"category,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	BaseUnit      string           `json:"base_unit,omitempty"`
	MinOrderQty   int              `json:"min_order_qty,omitempty"`
	InStock       bool             `json:"in_stock"`
	Variants      []Variant        `json:"variants,omitempty"`
	BulkDiscounts []BulkDiscount   `json:"bulk_discounts,omitempty"`
}

// Variant is a purchasable weight/size option with its own price and stock.
type Variant struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Weight  decimal.Decimal `json:"weight"`
	Unit    string          `json:"unit"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"in_stock"`
}

// BulkDiscount is a quantity threshold at or above which a percentage
// discount applies to the unit price.
type BulkDiscount struct {
	MinQuantity int             `json:"min_quantity"`
	Percent     decimal.Decimal `json:"discount_percentage"`
}

// LineItem is one cart row: a product snapshot, an optional selected
// variant, and a positive quantity. The effective price is derived, never
// stored.
type LineItem struct {
	Product  Product  `json:"product"`
	Variant  *Variant `json:"variant,omitempty"`
	Quantity int      `json:"quantity"`
}

// Slot returns the unique key identifying this line item: the product ID
// alone, or product and variant IDs when a variant is selected. Every
// caller and the store itself must compute it the same way.
func (li LineItem) Slot() string {
	return SlotKey(li.Product.ID, variantID(li.Variant))
}

// SlotKey builds the slot identity from raw IDs. An empty variantID means
// the product's base configuration.
func SlotKey(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "::" + variantID
}

// UnitPrice resolves the base unit price: the selected variant's price when
// one is selected, the product's price otherwise.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.Variant != nil {
		return li.Variant.Price
	}
	return li.Product.Price
}

func variantID(v *Variant) string {
	if v == nil {
		return ""
	}
	return v.ID
}
