package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

func (s *PostgresStorage) CreateOrder(ctx context.Context, order entities.Order, items []entities.OrderItem) (entities.Order, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return entities.Order{}, err
	}

	defer tx.Rollback()

	row := tx.QueryRowxContext(
		ctx,
		`INSERT INTO orders (number, user_id, status, payment_status, subtotal_cents,
			promo_code_id, promo_discount_cents, shipping_cents, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at;`,
		order.Number, order.UserID, entities.OrderStatusPending, entities.PaymentStatusPending,
		order.SubtotalCents, order.PromoCodeID, order.PromoDiscountCents, order.ShippingCents, order.TotalCents,
	)

	if err := row.Scan(&order.ID, &order.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return entities.Order{}, ErrConflict
		}

		return entities.Order{}, err
	}

	order.Status = entities.OrderStatusPending
	order.PaymentStatus = entities.PaymentStatusPending

	for _, item := range items {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE books SET stock = stock - $1 WHERE id = $2 AND stock >= $1;`,
			item.Quantity, item.BookID,
		)
		if err != nil {
			return entities.Order{}, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return entities.Order{}, err
		}

		if affected == 0 {
			return entities.Order{}, ErrInsufficientStock
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO order_items (order_id, book_id, quantity, unit_cents, total_cents)
			VALUES ($1, $2, $3, $4, $5);`,
			order.ID, item.BookID, item.Quantity, item.UnitCents, item.TotalCents,
		); err != nil {
			return entities.Order{}, err
		}
	}

	if order.PromoCodeID.Valid {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO promo_code_uses (promo_code_id, user_id, order_id, discount_cents)
			VALUES ($1, $2, $3, $4);`,
			order.PromoCodeID, order.UserID, order.ID, order.PromoDiscountCents,
		); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
				return entities.Order{}, ErrConflict
			}

			return entities.Order{}, err
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1);`,
		order.UserID,
	); err != nil {
		return entities.Order{}, err
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE carts SET promo_code_id = NULL WHERE user_id = $1;`,
		order.UserID,
	); err != nil {
		return entities.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return entities.Order{}, err
	}

	return order, nil
}

func (s *PostgresStorage) GetUserOrders(ctx context.Context, userID string) ([]entities.Order, error) {
	var orders []entities.Order

	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC;", userID)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *PostgresStorage) GetOrderByNumber(ctx context.Context, number string) (entities.Order, error) {
	var order entities.Order

	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE number = $1;", number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return order, ErrNoRows
		}

		return order, err
	}

	return order, nil
}

func (s *PostgresStorage) GetOrderItems(ctx context.Context, orderID string) ([]entities.OrderItem, error) {
	var items []entities.OrderItem

	err := s.db.SelectContext(ctx, &items, "SELECT * FROM order_items WHERE order_id = $1;", orderID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s *PostgresStorage) GetOrderHistory(ctx context.Context, orderID string) ([]entities.OrderStatusHistory, error) {
	var history []entities.OrderStatusHistory

	err := s.db.SelectContext(ctx, &history, "SELECT * FROM order_status_history WHERE order_id = $1 ORDER BY created_at ASC;", orderID)
	if err != nil {
		return nil, err
	}

	return history, nil
}

// CancelOrder cancels an order on behalf of a user. The update is
// conditional on the payment still being pending, so it cannot race a
// payment capture or the expiry sweep into a double transition.
func (s *PostgresStorage) CancelOrder(ctx context.Context, order entities.Order, changedBy string, note string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE orders SET status = $1, payment_status = $2 WHERE id = $3 AND payment_status = $4;`,
		entities.OrderStatusCancelled, entities.PaymentStatusFailed, order.ID, entities.PaymentStatusPending,
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

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, note)
		VALUES ($1, $2, $3, $4, $5);`,
		order.ID, order.Status, entities.OrderStatusCancelled, changedBy, note,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStorage) MarkOrderPaid(ctx context.Context, order entities.Order, paymentID string, note string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE orders SET status = $1, payment_status = $2, payment_id = $3 WHERE id = $4 AND payment_status = $5;`,
		entities.OrderStatusProcessing, entities.PaymentStatusPaid, paymentID, order.ID, entities.PaymentStatusPending,
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

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, note)
		VALUES ($1, $2, $3, $4, $5);`,
		order.ID, order.Status, entities.OrderStatusProcessing, order.UserID, note,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStorage) GetExpiredPendingOrders(ctx context.Context, cutoff time.Time) ([]entities.Order, error) {
	var orders []entities.Order

	err := s.db.SelectContext(
		ctx,
		&orders,
		`SELECT * FROM orders WHERE status = $1 AND payment_status = $2 AND created_at < $3;`,
		entities.OrderStatusPending, entities.PaymentStatusPending, cutoff,
	)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// CancelExpiredOrder transitions one expired order to cancelled/failed and
// appends the matching history entry in the same transaction. The selection
// predicate is re-checked in the UPDATE, so a row already transitioned by a
// concurrent run is reported as not applied rather than an error.
func (s *PostgresStorage) CancelExpiredOrder(ctx context.Context, order entities.Order, note string) (bool, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return false, err
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE orders SET status = $1, payment_status = $2
		WHERE id = $3 AND status = $4 AND payment_status = $5;`,
		entities.OrderStatusCancelled, entities.PaymentStatusFailed,
		order.ID, entities.OrderStatusPending, entities.PaymentStatusPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, note)
		VALUES ($1, $2, $3, $4, $5);`,
		order.ID, entities.OrderStatusPending, entities.OrderStatusCancelled, entities.HistoryActorSystem, note,
	); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}
