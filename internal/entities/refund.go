package entities

import (
	"time"
)

const (
	RefundStatusRequested = "requested"
	RefundStatusProcessed = "processed"
)

type Refund struct {
	ID               string    `db:"id"`
	OrderID          string    `db:"order_id"`
	OrderNumber      string    `db:"order_number"`
	RequestedBy      string    `db:"requested_by"`
	Reason           string    `db:"reason"`
	Description      string    `db:"description"`
	AmountCents      int       `db:"amount_cents"`
	Status           string    `db:"status"`
	ProviderRefundID string    `db:"provider_refund_id"`
	CreatedAt        time.Time `db:"created_at"`
}
