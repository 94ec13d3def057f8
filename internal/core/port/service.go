package port

import (
	"context"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/govalues/decimal"
)

type SubmitOrderRequest struct {
	CustomerID    uint64               `validate:"required"`
	LoanID        uint64               `validate:"required"`
	Amount        decimal.Decimal      `validate:"-"`
	Periods       int                  `validate:"required,min=1,max=2"`
	PaymentMethod domain.PaymentMethod `validate:"required,oneof=cash qr"`
	Remark        string               `validate:"max=500"`
}

type SubmitResult struct {
	Success  bool
	Message  string
	OrderID  string
	Notified int
}

type ClaimResult struct {
	Success       bool
	Message       string
	CollectorID   uint64
	CollectorName string
	Order         *domain.Order
}

type ManualRequest struct {
	PeriodCount   int             `validate:"required,min=1"`
	TotalCapital  decimal.Decimal `validate:"-"`
	TotalInterest decimal.Decimal `validate:"-"`
	Fines         decimal.Decimal `validate:"-"`
}

type RepaymentRequest struct {
	LoanID  uint64               `validate:"required"`
	Amount  decimal.Decimal      `validate:"-"`
	Method  domain.PaymentMethod `validate:"required,oneof=cash qr"`
	OrderID string               `validate:"omitempty,uuid"`
}

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	SubmitOrder(ctx context.Context, actor domain.Actor, req SubmitOrderRequest) (*SubmitResult, error)
	ClaimOrder(ctx context.Context, actor domain.Actor, orderID string) (*ClaimResult, error)
	ReviewOrder(ctx context.Context, actor domain.Actor, orderID string, actualPaid decimal.Decimal) (*domain.Order, error)
	ProcessManualOrder(ctx context.Context, actor domain.Actor, orderID string, req ManualRequest) (*domain.Order, error)
	DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error
	UpdateOrderStatus(ctx context.Context, actor domain.Actor, orderID string, status domain.OrderStatus) (*domain.Order, error)
	ReportPaymentFeedback(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error)
	RepayLoan(ctx context.Context, actor domain.Actor, req RepaymentRequest) (*domain.LoanAccount, error)
	ResolveChannel(ctx context.Context, actor domain.Actor) (domain.ChannelKind, string, error)
}
