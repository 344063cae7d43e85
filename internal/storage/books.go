package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/editionssen/bookstore/internal/entities"
)

const bookColumns = `b.id, b.title, b.slug, b.author, b.isbn, b.description, b.price_cents,
	b.discount_cents, b.stock, b.is_available, b.is_featured, b.category_id, cat.name AS category_name,
	b.created_at`

const categoryJoin = ` LEFT JOIN categories cat ON cat.id = b.category_id`

func (s *PostgresStorage) ListBooks(ctx context.Context, filter BookFilter) ([]entities.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b` + categoryJoin
	args := make([]any, 0, 3)

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		query += fmt.Sprintf(` JOIN categories c ON c.id = b.category_id AND c.slug = $%d`, len(args))
	}

	query += ` WHERE b.is_available = TRUE`

	if filter.FeaturedOnly {
		query += ` AND b.is_featured = TRUE`
	}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(` AND (b.title ILIKE $%d OR b.author ILIKE $%d)`, len(args), len(args))
	}

	query += ` ORDER BY b.created_at DESC;`

	var books []entities.Book

	if err := s.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}

	return books, nil
}

func (s *PostgresStorage) GetBookBySlug(ctx context.Context, slug string) (entities.Book, error) {
	var book entities.Book

	err := s.db.GetContext(ctx, &book, `SELECT `+bookColumns+` FROM books b`+categoryJoin+` WHERE b.slug = $1;`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return book, ErrNoRows
		}

		return book, err
	}

	return book, nil
}

func (s *PostgresStorage) ListCategories(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category

	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories WHERE is_active = TRUE ORDER BY name ASC;")
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (s *PostgresStorage) GetCategoryBySlug(ctx context.Context, slug string) (entities.Category, error) {
	var category entities.Category

	err := s.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE slug = $1;", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return category, ErrNoRows
		}

		return category, err
	}

	return category, nil
}
