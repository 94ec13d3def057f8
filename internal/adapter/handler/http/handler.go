package http

import (
	"errors"
	"net/http"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrExpiredToken:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrNoUpdatedData: http.StatusBadRequest,
	domain.ErrBadRequest:    http.StatusBadRequest,

	domain.ErrOrderAlreadyClaimed:      http.StatusConflict,
	domain.ErrOrderExpired:             http.StatusGone,
	domain.ErrInsufficientQuota:        http.StatusUnprocessableEntity,
	domain.ErrAmountExceedsOrder:       http.StatusUnprocessableEntity,
	domain.ErrAmountExceedsOutstanding: http.StatusUnprocessableEntity,
	domain.ErrManualSplitMismatch:      http.StatusUnprocessableEntity,
}

var kindStatusMap = map[domain.ErrorKind]int{
	domain.KindValidation:    http.StatusBadRequest,
	domain.KindAuthorization: http.StatusUnauthorized,
	domain.KindNotFound:      http.StatusNotFound,
	domain.KindConflict:      http.StatusConflict,
	domain.KindBusiness:      http.StatusUnprocessableEntity,
	domain.KindInternal:      http.StatusInternalServerError,
}

func statusOf(err error) int {
	if status, ok := errorStatusMap[err]; ok {
		return status
	}
	for e, status := range errorStatusMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return kindStatusMap[domain.Kind(err)]
}

type errorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Period   *int   `json:"period,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

func newErrorResponse(err error) errorResponse {
	kind := domain.Kind(err)
	resp := errorResponse{Error: err.Error(), Kind: string(kind)}
	if kind == domain.KindInternal {
		resp.Error = domain.ErrInternal.Error()
	}

	var mismatch *domain.SplitMismatchError
	if errors.As(err, &mismatch) {
		period := mismatch.PeriodIndex
		resp.Period = &period
		resp.Expected = mismatch.Expected.String()
		resp.Actual = mismatch.Actual.String()
	}
	return resp
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends an error response for a request that could not be parsed
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	h.logger.Debug("bad request", zap.String("path", ctx.FullPath()), zap.Error(err))
	ctx.JSON(http.StatusBadRequest, errorResponse{
		Error: domain.ErrBadRequest.Error() + ": " + err.Error(),
		Kind:  string(domain.KindValidation),
	})
}

// handleAbort sends an error response and aborts the request
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	statusCode := statusOf(err)
	if statusCode == http.StatusInternalServerError {
		h.logger.Error("aborting request", zap.Error(err))
	}
	ctx.AbortWithStatusJSON(statusCode, newErrorResponse(err))
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode := statusOf(err)
	if statusCode == http.StatusInternalServerError {
		h.logger.Error("error processing request", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	ctx.JSON(statusCode, newErrorResponse(err))
}

// handleSuccessWithStatus sends data with the status, or only the status when data is nil
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
