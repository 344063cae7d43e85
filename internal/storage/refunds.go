package storage

import (
	"context"

	"github.com/editionssen/bookstore/internal/entities"
)

// CreateRefund records a processed refund and moves the order's payment
// status from paid to refunded in the same transaction. The update is
// conditional, so an already refunded order comes back as ErrNoRows.
func (s *PostgresStorage) CreateRefund(ctx context.Context, refund entities.Refund) (string, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return "", err
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE orders SET payment_status = $1 WHERE id = $2 AND payment_status = $3;`,
		entities.PaymentStatusRefunded, refund.OrderID, entities.PaymentStatusPaid,
	)
	if err != nil {
		return "", err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", err
	}

	if affected == 0 {
		return "", ErrNoRows
	}

	var refundID string

	row := tx.QueryRowxContext(
		ctx,
		`INSERT INTO refunds (order_id, requested_by, reason, description, amount_cents, status, provider_refund_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		refund.OrderID, refund.RequestedBy, refund.Reason, refund.Description,
		refund.AmountCents, refund.Status, refund.ProviderRefundID,
	)

	if err := row.Scan(&refundID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return refundID, nil
}

func (s *PostgresStorage) GetUserRefunds(ctx context.Context, userID string) ([]entities.Refund, error) {
	var refunds []entities.Refund

	err := s.db.SelectContext(
		ctx,
		&refunds,
		`SELECT r.*, o.number AS order_number
		FROM refunds r
		JOIN orders o ON o.id = r.order_id
		WHERE r.requested_by = $1
		ORDER BY r.created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return refunds, nil
}
