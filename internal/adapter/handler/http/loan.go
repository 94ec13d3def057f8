package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type LoanHandler struct {
	Handler
	service port.Service
}

func NewLoanHandler(service port.Service, logger *zap.Logger) (*LoanHandler, error) {
	return &LoanHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type repaymentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method" binding:"required"`
	OrderID string          `json:"order_id"`
}

type loanResponse struct {
	ID             uint64          `json:"id"`
	CustomerID     uint64          `json:"customer_id"`
	TotalPeriods   int             `json:"total_periods"`
	RepaidPeriods  int             `json:"repaid_periods"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	PaidCapital    decimal.Decimal `json:"paid_capital"`
	PaidInterest   decimal.Decimal `json:"paid_interest"`
	TotalFines     decimal.Decimal `json:"total_fines"`
	Status         string          `json:"status"`
	SettledAt      *time.Time      `json:"settled_at,omitempty"`
}

func newLoanResponse(l *domain.LoanAccount) loanResponse {
	return loanResponse{
		ID:             l.ID,
		CustomerID:     l.CustomerID,
		TotalPeriods:   l.TotalPeriods,
		RepaidPeriods:  l.RepaidPeriods,
		ReceivedAmount: l.ReceivedAmount,
		PaidCapital:    l.PaidCapital,
		PaidInterest:   l.PaidInterest,
		TotalFines:     l.TotalFines,
		Status:         string(l.Status),
		SettledAt:      l.SettledAt,
	}
}

func (lh *LoanHandler) RepayLoan(ctx *gin.Context) {
	loanID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		lh.handleValidationError(ctx, fmt.Errorf("loan id: %w", err))
		return
	}

	req := repaymentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		lh.handleValidationError(ctx, err)
		return
	}

	loan, err := lh.service.RepayLoan(ctx, getActor(ctx), port.RepaymentRequest{
		LoanID:  loanID,
		Amount:  req.Amount,
		Method:  domain.PaymentMethod(req.Method),
		OrderID: req.OrderID,
	})
	if err != nil {
		lh.handleError(ctx, err)
		return
	}
	lh.handleSuccess(ctx, newLoanResponse(loan))
}
