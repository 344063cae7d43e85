package entities

import (
	"database/sql"
	"time"
)

type Category struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

type Book struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Slug          string         `db:"slug"`
	Author        string         `db:"author"`
	ISBN          string         `db:"isbn"`
	Description   string         `db:"description"`
	PriceCents    int            `db:"price_cents"`
	DiscountCents int            `db:"discount_cents"`
	Stock         int            `db:"stock"`
	IsAvailable   bool           `db:"is_available"`
	IsFeatured    bool           `db:"is_featured"`
	CategoryID    sql.NullString `db:"category_id"`
	CategoryName  sql.NullString `db:"category_name"`
	CreatedAt     time.Time      `db:"created_at"`
}

// DisplayPriceCents returns the discounted price when a discount is set and
// lower than the regular price.
func (b Book) DisplayPriceCents() int {
	if b.DiscountCents > 0 && b.DiscountCents < b.PriceCents {
		return b.DiscountCents
	}

	return b.PriceCents
}

func (b Book) IsOnSale() bool {
	return b.DiscountCents > 0 && b.DiscountCents < b.PriceCents
}

func (b Book) InStock() bool {
	return b.IsAvailable && b.Stock > 0
}
