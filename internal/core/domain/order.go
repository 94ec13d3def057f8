package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusGrabbed   OrderStatus = "grabbed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusExpired   OrderStatus = "expired"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
)

type ManualStatus string

const (
	ManualStatusNone        ManualStatus = "none"
	ManualStatusUnprocessed ManualStatus = "unprocessed"
	ManualStatusProcessed   ManualStatus = "processed"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodQR   PaymentMethod = "qr"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodQR
}

type Order struct {
	ID              string
	CustomerID      uint64
	LoanID          uint64
	Amount          decimal.Decimal
	Periods         int
	PaymentMethod   PaymentMethod
	Remark          string
	Status          OrderStatus
	ReviewStatus    ReviewStatus
	PaymentFeedback bool
	PayeeID         *uint64
	ActualPaid      *decimal.Decimal
	NeedsManual     bool
	ManualStatus    ManualStatus
	CreatedAt       time.Time
	ExpiresAt       time.Time
	UpdatedAt       time.Time
}

// CheckClaimable reports why the order cannot be grabbed at the given moment.
func (o *Order) CheckClaimable(now time.Time) error {
	if o.Status != OrderStatusPending || o.PayeeID != nil {
		return ErrOrderAlreadyClaimed
	}
	if !o.ExpiresAt.After(now) {
		return ErrOrderExpired
	}
	return nil
}

func (o *Order) ClaimedBy(payeeID uint64) bool {
	return o.PayeeID != nil && *o.PayeeID == payeeID
}

// TransitionTo applies an explicit status change requested by an operator.
func (o *Order) TransitionTo(status OrderStatus) error {
	switch {
	case o.Status == OrderStatusGrabbed && status == OrderStatusCompleted:
	case o.Status == OrderStatusPending && status == OrderStatusExpired:
	default:
		return ErrStatusTransition
	}
	o.Status = status
	return nil
}

type OrderFilter struct {
	Statuses []OrderStatus
	PayeeID  *uint64
	// OrPending widens a payee filter with every pending order.
	OrPending bool
}
