package http

import (
	"net/http"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type orderResponse struct {
	ID              string           `json:"id"`
	CustomerID      uint64           `json:"customer_id"`
	LoanID          uint64           `json:"loan_id"`
	Amount          decimal.Decimal  `json:"amount"`
	Periods         int              `json:"periods"`
	PaymentMethod   string           `json:"payment_method"`
	Remark          string           `json:"remark,omitempty"`
	Status          string           `json:"status"`
	ReviewStatus    string           `json:"review_status"`
	PaymentFeedback bool             `json:"payment_feedback"`
	PayeeID         *uint64          `json:"payee_id,omitempty"`
	ActualPaid      *decimal.Decimal `json:"actual_paid,omitempty"`
	NeedsManual     bool             `json:"needs_manual"`
	ManualStatus    string           `json:"manual_status"`
	CreatedAt       time.Time        `json:"created_at"`
	ExpiresAt       time.Time        `json:"expires_at"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		LoanID:          o.LoanID,
		Amount:          o.Amount,
		Periods:         o.Periods,
		PaymentMethod:   string(o.PaymentMethod),
		Remark:          o.Remark,
		Status:          string(o.Status),
		ReviewStatus:    string(o.ReviewStatus),
		PaymentFeedback: o.PaymentFeedback,
		PayeeID:         o.PayeeID,
		ActualPaid:      o.ActualPaid,
		NeedsManual:     o.NeedsManual,
		ManualStatus:    string(o.ManualStatus),
		CreatedAt:       o.CreatedAt,
		ExpiresAt:       o.ExpiresAt,
	}
}

type submitOrderRequest struct {
	CustomerID    uint64          `json:"customer_id"`
	LoanID        uint64          `json:"loan_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Periods       int             `json:"periods" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Remark        string          `json:"remark"`
}

type submitOrderResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	OrderID  string `json:"order_id"`
	Notified int    `json:"notified"`
}

func (oh *OrderHandler) SubmitOrder(ctx *gin.Context) {
	req := submitOrderRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	result, err := oh.service.SubmitOrder(ctx, getActor(ctx), port.SubmitOrderRequest{
		CustomerID:    req.CustomerID,
		LoanID:        req.LoanID,
		Amount:        req.Amount,
		Periods:       req.Periods,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Remark:        req.Remark,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, submitOrderResponse{
		Success:  result.Success,
		Message:  result.Message,
		OrderID:  result.OrderID,
		Notified: result.Notified,
	}, http.StatusCreated)
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	list, err := oh.service.ListOrders(ctx, getActor(ctx))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResponse(o))
	}
	oh.handleSuccess(ctx, result)
}

type claimResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	CollectorID   uint64        `json:"collector_id"`
	CollectorName string        `json:"collector_name"`
	Order         orderResponse `json:"order"`
}

func (oh *OrderHandler) ClaimOrder(ctx *gin.Context) {
	result, err := oh.service.ClaimOrder(ctx, getActor(ctx), ctx.Param("id"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, claimResponse{
		Success:       result.Success,
		Message:       result.Message,
		CollectorID:   result.CollectorID,
		CollectorName: result.CollectorName,
		Order:         newOrderResponse(result.Order),
	})
}

func (oh *OrderHandler) ReportPaymentFeedback(ctx *gin.Context) {
	order, err := oh.service.ReportPaymentFeedback(ctx, getActor(ctx), ctx.Param("id"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

type reviewRequest struct {
	ActualPaid decimal.Decimal `json:"actual_paid"`
}

func (oh *OrderHandler) ReviewOrder(ctx *gin.Context) {
	req := reviewRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.ReviewOrder(ctx, getActor(ctx), ctx.Param("id"), req.ActualPaid)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

type manualRequest struct {
	PeriodCount   int             `json:"period_count" binding:"required"`
	TotalCapital  decimal.Decimal `json:"total_capital"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	Fines         decimal.Decimal `json:"fines"`
}

func (oh *OrderHandler) ProcessManualOrder(ctx *gin.Context) {
	req := manualRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.ProcessManualOrder(ctx, getActor(ctx), ctx.Param("id"), port.ManualRequest{
		PeriodCount:   req.PeriodCount,
		TotalCapital:  req.TotalCapital,
		TotalInterest: req.TotalInterest,
		Fines:         req.Fines,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (oh *OrderHandler) UpdateOrderStatus(ctx *gin.Context) {
	req := statusRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.UpdateOrderStatus(ctx, getActor(ctx), ctx.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) DeleteOrder(ctx *gin.Context) {
	if err := oh.service.DeleteOrder(ctx, getActor(ctx), ctx.Param("id")); err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
