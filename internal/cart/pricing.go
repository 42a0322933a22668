package cart

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EffectivePrice computes the discounted unit price for a line item. The base
// price comes from the selected variant when present, otherwise from the
// product. When bulk discount tiers exist, the tier with the highest
// MinQuantity not exceeding the current quantity wins; if no tier qualifies
// the base price is returned unmodified.
//
// Pure function: re-evaluated whenever quantity or selection changes, never
// cached on the line item.
func EffectivePrice(item LineItem) decimal.Decimal {
	base := item.UnitPrice()

	tier := selectBulkTier(item.Quantity, item.Product.BulkDiscounts)
	if tier == nil {
		return base
	}

	pct := clampPercent(tier.Percent)
	factor := decimal.NewFromInt(1).Sub(pct.Div(hundred))
	return base.Mul(factor)
}

// Subtotal is the discounted line total: effective price times quantity.
func Subtotal(item LineItem) decimal.Decimal {
	return EffectivePrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// selectBulkTier picks the qualifying tier with the largest MinQuantity.
// Tier storage order is irrelevant; thresholds above qty are ignored.
func selectBulkTier(qty int, tiers []BulkDiscount) *BulkDiscount {
	var selected *BulkDiscount
	for i := range tiers {
		tier := tiers[i]
		if tier.MinQuantity > qty {
			continue
		}
		if selected == nil || tier.MinQuantity > selected.MinQuantity {
			selected = &tier
		}
	}
	return selected
}

// clampPercent bounds malformed tier percentages to [0, 100] so a bad
// catalog row can never produce a negative price.
func clampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
