package port

import (
	"context"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, orderID string, updateFn UpdateOrderFn) (*domain.Order, error)
	ClaimOrder(ctx context.Context, orderID string, payeeID uint64, claimFn ClaimFn) (*domain.Order, *domain.Payee, error)
	DeleteOrder(ctx context.Context, orderID string, deleteFn DeleteFn) (*domain.Order, error)

	// Dispatch snapshot
	ReadCustomer(ctx context.Context, customerID uint64) (*domain.Customer, error)
	ReadPayee(ctx context.Context, payeeID uint64) (*domain.Payee, error)
	ListEnabledPayees(ctx context.Context) ([]*domain.Payee, error)
	ListPayeesServedCustomer(ctx context.Context, customerID uint64) ([]uint64, error)

	// Settlement
	ReadLoan(ctx context.Context, loanID uint64) (*domain.LoanAccount, error)
	SettleOrder(ctx context.Context, orderID string, at time.Time, settleFn SettleFn) (*domain.Settlement, error)
	SettleLoan(ctx context.Context, loanID uint64, at time.Time, settleFn SettleFn) (*domain.Settlement, error)
}

type UpdateOrderFn func(*domain.Order) error

// ClaimFn runs with the order and payee rows locked.
type ClaimFn func(*domain.Order, *domain.Payee) error

// DeleteFn gets a nil payee when the order was never claimed.
type DeleteFn func(*domain.Order, *domain.Payee) error

// SettleFn runs with the order, loan and schedule rows locked.
type SettleFn func(*domain.Settlement) error
