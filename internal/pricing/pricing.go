// Package pricing resolves the price a customer actually pays, including
// promotional discounts and the delivery fee.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/auroramart/storefront/internal/models"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the promotion-aware unit price of p, rounded
// half-up to two decimal places.
//
// Resolution precedence:
//  1. not on sale: stored price
//  2. on sale with original price and discount percentage: discounted original
//  3. on sale with only an original price: stored price (assumed pre-discounted)
//  4. on sale with only a discount percentage: discounted stored price
//
// Anything that cannot be resolved falls back to the stored price; catalog
// pages must never fail over a malformed promotion.
func EffectivePrice(p models.Product) decimal.Decimal {
	if !p.IsOnSale {
		return p.Price
	}
	switch {
	case p.OriginalPrice != nil && p.DiscountPercentage != nil:
		return discounted(*p.OriginalPrice, *p.DiscountPercentage)
	case p.DiscountPercentage != nil:
		return discounted(p.Price, *p.DiscountPercentage)
	default:
		return p.Price
	}
}

func discounted(base, percent decimal.Decimal) decimal.Decimal {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return base
	}
	return base.Mul(hundred.Sub(percent)).Div(hundred).Round(2)
}

// DiscountPercent returns the discount percentage to display for p: the
// explicit value when set, otherwise derived from the gap between the
// original and stored price, otherwise zero.
func DiscountPercent(p models.Product) decimal.Decimal {
	if !p.IsOnSale {
		return decimal.Zero
	}
	if p.DiscountPercentage != nil {
		return *p.DiscountPercentage
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsPositive() {
		return p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Mul(hundred).Round(0)
	}
	return decimal.Zero
}

// DeliveryFee returns flat below the free-delivery threshold and zero at or
// above it.
func DeliveryFee(subtotal, flat, freeThreshold decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeThreshold) {
		return decimal.Zero
	}
	return flat
}
