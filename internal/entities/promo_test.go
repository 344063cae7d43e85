package entities

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromoCodeDiscountCents(t *testing.T) {
	tests := []struct {
		name     string
		promo    PromoCode
		subtotal int
		expected int
	}{
		{
			name:     "percentage",
			promo:    PromoCode{DiscountType: PromoDiscountPercentage, DiscountValue: 10},
			subtotal: 4000,
			expected: 400,
		},
		{
			name:     "fixed",
			promo:    PromoCode{DiscountType: PromoDiscountFixed, DiscountValue: 500},
			subtotal: 4000,
			expected: 500,
		},
		{
			name:     "fixed capped at subtotal",
			promo:    PromoCode{DiscountType: PromoDiscountFixed, DiscountValue: 5000},
			subtotal: 4000,
			expected: 4000,
		},
		{
			name:     "unknown type",
			promo:    PromoCode{DiscountType: "mystery", DiscountValue: 500},
			subtotal: 4000,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.promo.DiscountCents(tt.subtotal))
		})
	}
}

func TestPromoCodeUsable(t *testing.T) {
	now := time.Now()

	active := PromoCode{IsActive: true}
	assert.True(t, active.Usable(now))

	inactive := PromoCode{IsActive: false}
	assert.False(t, inactive.Usable(now))

	expired := PromoCode{IsActive: true, ExpiresAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}}
	assert.False(t, expired.Usable(now))

	future := PromoCode{IsActive: true, ExpiresAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true}}
	assert.True(t, future.Usable(now))
}
