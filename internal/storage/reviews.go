package storage

import (
	"context"
	"errors"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

func (s *PostgresStorage) GetBookReviews(ctx context.Context, bookID string) ([]entities.Review, error) {
	var reviews []entities.Review

	err := s.db.SelectContext(
		ctx,
		&reviews,
		"SELECT * FROM reviews WHERE book_id = $1 AND is_approved = TRUE ORDER BY created_at DESC;",
		bookID,
	)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (s *PostgresStorage) CreateReview(ctx context.Context, review entities.Review) (string, error) {
	var reviewID string

	row := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO reviews (book_id, user_id, rating, title, comment)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		review.BookID, review.UserID, review.Rating, review.Title, review.Comment,
	)

	if err := row.Err(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	if err := row.Scan(&reviewID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	return reviewID, nil
}
