package entities

import (
	"time"
)

type Review struct {
	ID         string    `db:"id"`
	BookID     string    `db:"book_id"`
	UserID     string    `db:"user_id"`
	Rating     int       `db:"rating"`
	Title      string    `db:"title"`
	Comment    string    `db:"comment"`
	IsApproved bool      `db:"is_approved"`
	CreatedAt  time.Time `db:"created_at"`
}
