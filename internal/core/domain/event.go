package domain

import (
	"time"

	"github.com/govalues/decimal"
)

const (
	EventNewOrder       = "new_order"
	EventOrderGrabbed   = "order_grabbed"
	EventOrderCompleted = "order_completed"
	EventOrderDeleted   = "order_deleted"
)

const (
	MailManualReview = "manual_review_required"
	MailOrderSettled = "order_settled"
	MailLoanSettled  = "loan_settled"
)

// NewOrderEvent is pushed to payees while an order is open for grabbing.
type NewOrderEvent struct {
	OrderID       string          `json:"order_id"`
	CustomerID    uint64          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Periods       int             `json:"periods"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Priority      int             `json:"priority"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

// GrabbedEvent tells the customer who is coming and until when.
type GrabbedEvent struct {
	OrderID       string          `json:"order_id"`
	CollectorID   uint64          `json:"collector_id"`
	CollectorName string          `json:"collector_name"`
	Amount        decimal.Decimal `json:"amount"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

type OrderEvent struct {
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
}

type SettlementMail struct {
	OrderID    string          `json:"order_id,omitempty"`
	LoanID     uint64          `json:"loan_id"`
	CustomerID uint64          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Periods    int             `json:"periods,omitempty"`
}
