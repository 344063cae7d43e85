package entities

import (
	"database/sql"
	"time"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// HistoryActorSystem marks history entries written by automated
// transitions rather than a user.
const HistoryActorSystem = "system"

type Order struct {
	ID                 string         `db:"id"`
	Number             string         `db:"number"`
	UserID             string         `db:"user_id"`
	Status             string         `db:"status"`
	PaymentStatus      string         `db:"payment_status"`
	SubtotalCents      int            `db:"subtotal_cents"`
	PromoCodeID        sql.NullString `db:"promo_code_id"`
	PromoDiscountCents int            `db:"promo_discount_cents"`
	ShippingCents      int            `db:"shipping_cents"`
	TotalCents         int            `db:"total_cents"`
	PaymentID          sql.NullString `db:"payment_id"`
	CreatedAt          time.Time      `db:"created_at"`
}

// AwaitingPayment reports whether the order is still eligible for expiry
// cancellation: both statuses in their pending state.
func (o Order) AwaitingPayment() bool {
	return o.Status == OrderStatusPending && o.PaymentStatus == PaymentStatusPending
}

type OrderItem struct {
	ID         string `db:"id"`
	OrderID    string `db:"order_id"`
	BookID     string `db:"book_id"`
	Quantity   int    `db:"quantity"`
	UnitCents  int    `db:"unit_cents"`
	TotalCents int    `db:"total_cents"`
}

type OrderStatusHistory struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	OldStatus string    `db:"old_status"`
	NewStatus string    `db:"new_status"`
	ChangedBy string    `db:"changed_by"`
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}
