package pricing

import (
	"testing"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestTotalsFor(t *testing.T) {
	lines := []entities.CartLine{
		{
			Book:     entities.Book{PriceCents: 2000, DiscountCents: 1500},
			Quantity: 2,
		},
		{
			Book:     entities.Book{PriceCents: 1000},
			Quantity: 1,
		},
	}

	totals := TotalsFor(lines)

	assert.Equal(t, 5000, totals.TotalCents)
	assert.Equal(t, 1000, totals.DiscountCents)
	assert.Equal(t, 4000, totals.FinalCents)
}

func TestShippingCents(t *testing.T) {
	assert.Equal(t, StandardShippingCents, ShippingCents(0))
	assert.Equal(t, StandardShippingCents, ShippingCents(FreeShippingThresholdCents-1))
	assert.Equal(t, 0, ShippingCents(FreeShippingThresholdCents))
}
