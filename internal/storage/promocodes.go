package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/editionssen/bookstore/internal/entities"
)

func (s *PostgresStorage) GetPromoCodeByCode(ctx context.Context, code string) (entities.PromoCode, error) {
	var promo entities.PromoCode

	err := s.db.GetContext(ctx, &promo, "SELECT * FROM promo_codes WHERE code = $1;", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return promo, ErrNoRows
		}

		return promo, err
	}

	return promo, nil
}

// GetCartPromoCode returns the promo code applied to the user's cart, or
// ErrNoRows when the cart carries none.
func (s *PostgresStorage) GetCartPromoCode(ctx context.Context, userID string) (entities.PromoCode, error) {
	var promo entities.PromoCode

	err := s.db.GetContext(
		ctx,
		&promo,
		`SELECT p.* FROM promo_codes p
		JOIN carts c ON c.promo_code_id = p.id
		WHERE c.user_id = $1;`,
		userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return promo, ErrNoRows
		}

		return promo, err
	}

	return promo, nil
}

func (s *PostgresStorage) PromoCodeUsedBy(ctx context.Context, promoCodeID string, userID string) (bool, error) {
	var count int

	err := s.db.GetContext(
		ctx,
		&count,
		"SELECT COUNT(*) FROM promo_code_uses WHERE promo_code_id = $1 AND user_id = $2;",
		promoCodeID, userID,
	)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *PostgresStorage) ApplyPromoCode(ctx context.Context, userID string, promoCodeID string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := getOrCreateCart(ctx, tx, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		"UPDATE carts SET promo_code_id = $1 WHERE user_id = $2;",
		promoCodeID, userID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStorage) RemovePromoCode(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE carts SET promo_code_id = NULL WHERE user_id = $1;", userID)

	return err
}
