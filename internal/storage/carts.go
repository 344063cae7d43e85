package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/jmoiron/sqlx"
)

func (s *PostgresStorage) GetCartLines(ctx context.Context, userID string) ([]entities.CartLine, error) {
	rows, err := s.db.QueryxContext(
		ctx,
		`SELECT `+bookColumns+`, ci.quantity
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN books b ON b.id = ci.book_id`+categoryJoin+`
		WHERE c.user_id = $1
		ORDER BY ci.added_at ASC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var lines []entities.CartLine

	for rows.Next() {
		var line entities.CartLine

		err := rows.Scan(
			&line.Book.ID, &line.Book.Title, &line.Book.Slug, &line.Book.Author, &line.Book.ISBN,
			&line.Book.Description, &line.Book.PriceCents, &line.Book.DiscountCents, &line.Book.Stock,
			&line.Book.IsAvailable, &line.Book.IsFeatured, &line.Book.CategoryID, &line.Book.CategoryName,
			&line.Book.CreatedAt, &line.Quantity,
		)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func (s *PostgresStorage) AddCartItem(ctx context.Context, userID string, bookID string, quantity int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stock, err := bookStock(ctx, tx, bookID)
	if err != nil {
		return err
	}

	cartID, err := getOrCreateCart(ctx, tx, userID)
	if err != nil {
		return err
	}

	var newQuantity int

	row := tx.QueryRowxContext(
		ctx,
		`INSERT INTO cart_items (cart_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, book_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING quantity;`,
		cartID, bookID, quantity,
	)

	if err := row.Scan(&newQuantity); err != nil {
		return err
	}

	if newQuantity > stock {
		return ErrInsufficientStock
	}

	return tx.Commit()
}

func (s *PostgresStorage) SetCartItemQuantity(ctx context.Context, userID string, bookID string, quantity int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	stock, err := bookStock(ctx, tx, bookID)
	if err != nil {
		return err
	}

	if quantity > stock {
		return ErrInsufficientStock
	}

	result, err := tx.ExecContext(
		ctx,
		`UPDATE cart_items SET quantity = $1
		WHERE book_id = $2 AND cart_id IN (SELECT id FROM carts WHERE user_id = $3);`,
		quantity, bookID, userID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNoRows
	}

	return tx.Commit()
}

func (s *PostgresStorage) RemoveCartItem(ctx context.Context, userID string, bookID string) error {
	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM cart_items
		WHERE book_id = $1 AND cart_id IN (SELECT id FROM carts WHERE user_id = $2);`,
		bookID, userID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNoRows
	}

	return nil
}

func (s *PostgresStorage) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1);`,
		userID,
	)

	return err
}

func bookStock(ctx context.Context, tx *sqlx.Tx, bookID string) (int, error) {
	var (
		stock       int
		isAvailable bool
	)

	row := tx.QueryRowxContext(ctx, "SELECT stock, is_available FROM books WHERE id = $1;", bookID)

	if err := row.Scan(&stock, &isAvailable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoRows
		}

		return 0, err
	}

	if !isAvailable {
		return 0, nil
	}

	return stock, nil
}

func getOrCreateCart(ctx context.Context, tx *sqlx.Tx, userID string) (string, error) {
	var cartID string

	row := tx.QueryRowxContext(
		ctx,
		`INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id;`,
		userID,
	)

	if err := row.Scan(&cartID); err != nil {
		return "", err
	}

	return cartID, nil
}
