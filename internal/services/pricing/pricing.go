package pricing

import (
	"github.com/editionssen/bookstore/internal/entities"
)

// Shop-wide amounts, in cents. Orders above the threshold ship free.
const (
	FreeShippingThresholdCents = 5000
	StandardShippingCents      = 590
)

type CartTotals struct {
	TotalCents    int
	DiscountCents int
	FinalCents    int
}

func TotalsFor(lines []entities.CartLine) CartTotals {
	totals := CartTotals{}

	for _, line := range lines {
		totals.TotalCents += line.Book.PriceCents * line.Quantity
		totals.DiscountCents += line.DiscountCents()
	}

	totals.FinalCents = totals.TotalCents - totals.DiscountCents

	return totals
}

func ShippingCents(subtotalCents int) int {
	if subtotalCents >= FreeShippingThresholdCents {
		return 0
	}

	return StandardShippingCents
}
