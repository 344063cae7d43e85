package storage

import (
	"context"
	"errors"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/jmoiron/sqlx"
)

var (
	ErrConflict          = errors.New("conflict")
	ErrNoRows            = errors.New("no rows")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Storage interface {
	CreateUser(context.Context, string, string) (string, error)
	GetUser(context.Context, string, string) (string, error)

	ListBooks(context.Context, BookFilter) ([]entities.Book, error)
	GetBookBySlug(context.Context, string) (entities.Book, error)
	ListCategories(context.Context) ([]entities.Category, error)
	GetCategoryBySlug(context.Context, string) (entities.Category, error)

	GetBookReviews(context.Context, string) ([]entities.Review, error)
	CreateReview(context.Context, entities.Review) (string, error)

	GetCartLines(context.Context, string) ([]entities.CartLine, error)
	AddCartItem(context.Context, string, string, int) error
	SetCartItemQuantity(context.Context, string, string, int) error
	RemoveCartItem(context.Context, string, string) error
	ClearCart(context.Context, string) error

	GetPromoCodeByCode(context.Context, string) (entities.PromoCode, error)
	GetCartPromoCode(context.Context, string) (entities.PromoCode, error)
	PromoCodeUsedBy(context.Context, string, string) (bool, error)
	ApplyPromoCode(context.Context, string, string) error
	RemovePromoCode(context.Context, string) error

	CreateOrder(context.Context, entities.Order, []entities.OrderItem) (entities.Order, error)
	GetUserOrders(context.Context, string) ([]entities.Order, error)
	GetOrderByNumber(context.Context, string) (entities.Order, error)
	GetOrderItems(context.Context, string) ([]entities.OrderItem, error)
	GetOrderHistory(context.Context, string) ([]entities.OrderStatusHistory, error)
	CancelOrder(context.Context, entities.Order, string, string) error
	MarkOrderPaid(context.Context, entities.Order, string, string) error

	CreateRefund(context.Context, entities.Refund) (string, error)
	GetUserRefunds(context.Context, string) ([]entities.Refund, error)

	GetExpiredPendingOrders(context.Context, time.Time) ([]entities.Order, error)
	CancelExpiredOrder(context.Context, entities.Order, string) (bool, error)
}

type BookFilter struct {
	CategorySlug string
	FeaturedOnly bool
	Query        string
}

type PostgresStorage struct {
	db *sqlx.DB
}

func NewPostgresStorage(db *sqlx.DB) (Storage, error) {
	storage := &PostgresStorage{db: db}

	err := storage.runMigrations(context.Background())
	if err != nil {
		return nil, err
	}

	return storage, nil
}

func (s *PostgresStorage) runMigrations(ctx context.Context) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	for _, statement := range []string{
		`
		CREATE TABLE IF NOT EXISTS users(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			login TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS categories(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			name VARCHAR NOT NULL,
			slug VARCHAR NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS books(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			title VARCHAR NOT NULL,
			slug VARCHAR NOT NULL UNIQUE,
			author VARCHAR NOT NULL,
			isbn VARCHAR NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			price_cents INT NOT NULL,
			discount_cents INT NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			category_id uuid,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_category FOREIGN KEY(category_id) REFERENCES categories(id) ON DELETE SET NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS reviews(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			book_id uuid NOT NULL,
			user_id uuid NOT NULL,
			rating INT NOT NULL,
			title VARCHAR NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_book FOREIGN KEY(book_id) REFERENCES books(id) ON DELETE CASCADE,
			CONSTRAINT fk_user FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			CONSTRAINT uniq_book_user UNIQUE(book_id, user_id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS promo_codes(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			code VARCHAR NOT NULL UNIQUE,
			discount_type VARCHAR NOT NULL,
			discount_value INT NOT NULL,
			min_subtotal_cents INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS carts(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			user_id uuid NOT NULL UNIQUE,
			promo_code_id uuid,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_user FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			CONSTRAINT fk_promo_code FOREIGN KEY(promo_code_id) REFERENCES promo_codes(id) ON DELETE SET NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS cart_items(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			cart_id uuid NOT NULL,
			book_id uuid NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_cart FOREIGN KEY(cart_id) REFERENCES carts(id) ON DELETE CASCADE,
			CONSTRAINT fk_book FOREIGN KEY(book_id) REFERENCES books(id) ON DELETE CASCADE,
			CONSTRAINT uniq_cart_book UNIQUE(cart_id, book_id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS orders(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			number VARCHAR NOT NULL UNIQUE,
			user_id uuid NOT NULL,
			status VARCHAR NOT NULL,
			payment_status VARCHAR NOT NULL,
			subtotal_cents INT NOT NULL DEFAULT 0,
			promo_code_id uuid,
			promo_discount_cents INT NOT NULL DEFAULT 0,
			shipping_cents INT NOT NULL DEFAULT 0,
			total_cents INT NOT NULL DEFAULT 0,
			payment_id VARCHAR,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_user FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			CONSTRAINT fk_promo_code FOREIGN KEY(promo_code_id) REFERENCES promo_codes(id) ON DELETE SET NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS order_items(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			order_id uuid NOT NULL,
			book_id uuid NOT NULL,
			quantity INT NOT NULL,
			unit_cents INT NOT NULL,
			total_cents INT NOT NULL,
			CONSTRAINT fk_order FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE,
			CONSTRAINT fk_book FOREIGN KEY(book_id) REFERENCES books(id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS order_status_history(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			order_id uuid NOT NULL,
			old_status VARCHAR NOT NULL,
			new_status VARCHAR NOT NULL,
			changed_by VARCHAR NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_order FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS promo_code_uses(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			promo_code_id uuid NOT NULL,
			user_id uuid NOT NULL,
			order_id uuid NOT NULL,
			discount_cents INT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_promo_code FOREIGN KEY(promo_code_id) REFERENCES promo_codes(id) ON DELETE CASCADE,
			CONSTRAINT fk_user FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			CONSTRAINT fk_order FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE,
			CONSTRAINT uniq_promo_user UNIQUE(promo_code_id, user_id)
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS refunds(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			order_id uuid NOT NULL,
			requested_by uuid NOT NULL,
			reason VARCHAR NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount_cents INT NOT NULL,
			status VARCHAR NOT NULL,
			provider_refund_id VARCHAR NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_order FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE,
			CONSTRAINT fk_user FOREIGN KEY(requested_by) REFERENCES users(id) ON DELETE CASCADE
		);
		`,
	} {
		if _, err = tx.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	return tx.Commit()
}
