package entities

import (
	"time"
)

type Cart struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type CartItem struct {
	ID       string    `db:"id"`
	CartID   string    `db:"cart_id"`
	BookID   string    `db:"book_id"`
	Quantity int       `db:"quantity"`
	AddedAt  time.Time `db:"added_at"`
}

// CartLine is a cart item joined with its book, the unit the handlers and
// the checkout price calculation work with.
type CartLine struct {
	Book     Book
	Quantity int
}

func (l CartLine) TotalCents() int {
	return l.Book.DisplayPriceCents() * l.Quantity
}

func (l CartLine) DiscountCents() int {
	if !l.Book.IsOnSale() {
		return 0
	}

	return (l.Book.PriceCents - l.Book.DiscountCents) * l.Quantity
}
