package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/auroramart/storefront/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestEffectivePriceNotOnSale(t *testing.T) {
	p := models.Product{
		Price:              dec("19.99"),
		IsOnSale:           false,
		OriginalPrice:      decPtr("100.00"),
		DiscountPercentage: decPtr("25"),
	}
	assert.True(t, dec("19.99").Equal(EffectivePrice(p)), "sale fields are ignored when not on sale")
}

func TestEffectivePriceOriginalAndDiscount(t *testing.T) {
	p := models.Product{
		Price:              dec("80.00"),
		IsOnSale:           true,
		OriginalPrice:      decPtr("100.00"),
		DiscountPercentage: decPtr("25"),
	}
	assert.True(t, dec("75.00").Equal(EffectivePrice(p)))
}

func TestEffectivePriceOriginalOnly(t *testing.T) {
	p := models.Product{
		Price:         dec("80.00"),
		IsOnSale:      true,
		OriginalPrice: decPtr("100.00"),
	}
	// Stored price is assumed to be pre-discounted.
	assert.True(t, dec("80.00").Equal(EffectivePrice(p)))
}

func TestEffectivePriceDiscountOnly(t *testing.T) {
	p := models.Product{
		Price:              dec("50.00"),
		IsOnSale:           true,
		DiscountPercentage: decPtr("10"),
	}
	assert.True(t, dec("45.00").Equal(EffectivePrice(p)))
}

func TestEffectivePriceRoundsHalfUp(t *testing.T) {
	p := models.Product{
		Price:              dec("10.05"),
		IsOnSale:           true,
		DiscountPercentage: decPtr("50"),
	}
	// 5.025 rounds half-up to 5.03.
	assert.True(t, dec("5.03").Equal(EffectivePrice(p)))
}

func TestEffectivePriceMalformedDiscountFallsOpen(t *testing.T) {
	p := models.Product{
		Price:              dec("30.00"),
		IsOnSale:           true,
		OriginalPrice:      decPtr("40.00"),
		DiscountPercentage: decPtr("250"),
	}
	assert.True(t, dec("40.00").Equal(EffectivePrice(p)), "out-of-range discount falls back to the base price")
}

func TestDiscountPercentExplicit(t *testing.T) {
	p := models.Product{
		Price:              dec("75.00"),
		IsOnSale:           true,
		DiscountPercentage: decPtr("25"),
	}
	assert.True(t, dec("25").Equal(DiscountPercent(p)))
}

func TestDiscountPercentDerived(t *testing.T) {
	p := models.Product{
		Price:         dec("75.00"),
		IsOnSale:      true,
		OriginalPrice: decPtr("100.00"),
	}
	assert.True(t, dec("25").Equal(DiscountPercent(p)))
}

func TestDiscountPercentNotOnSale(t *testing.T) {
	p := models.Product{Price: dec("75.00"), OriginalPrice: decPtr("100.00")}
	assert.True(t, DiscountPercent(p).IsZero())
}

func TestDeliveryFee(t *testing.T) {
	flat := dec("4.99")
	freeAt := dec("150.00")

	fee := DeliveryFee(dec("149.99"), flat, freeAt)
	assert.True(t, dec("4.99").Equal(fee))
	assert.True(t, dec("154.98").Equal(dec("149.99").Add(fee)))

	assert.True(t, DeliveryFee(dec("150.00"), flat, freeAt).IsZero())
	assert.True(t, DeliveryFee(dec("500.00"), flat, freeAt).IsZero())
}
