package entities

import (
	"database/sql"
	"time"
)

const (
	PromoDiscountPercentage = "percentage"
	PromoDiscountFixed      = "fixed"
)

// PromoCode is a shop-wide discount code. Each user may redeem a code at
// most once; the redemption is recorded when the order is created.
type PromoCode struct {
	ID               string       `db:"id"`
	Code             string       `db:"code"`
	DiscountType     string       `db:"discount_type"`
	DiscountValue    int          `db:"discount_value"`
	MinSubtotalCents int          `db:"min_subtotal_cents"`
	IsActive         bool         `db:"is_active"`
	ExpiresAt        sql.NullTime `db:"expires_at"`
	CreatedAt        time.Time    `db:"created_at"`
}

// Usable reports whether the code is active and not yet expired.
func (p PromoCode) Usable(now time.Time) bool {
	if !p.IsActive {
		return false
	}

	return !p.ExpiresAt.Valid || now.Before(p.ExpiresAt.Time)
}

// DiscountCents returns the discount for a subtotal, capped at the
// subtotal so the payable amount never goes negative.
func (p PromoCode) DiscountCents(subtotalCents int) int {
	var discount int

	switch p.DiscountType {
	case PromoDiscountPercentage:
		discount = subtotalCents * p.DiscountValue / 100
	case PromoDiscountFixed:
		discount = p.DiscountValue
	}

	if discount > subtotalCents {
		return subtotalCents
	}

	return discount
}
