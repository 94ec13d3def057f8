package http_test

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	handler "github.com/MikeRez0/collectdesk/internal/adapter/handler/http"
	"github.com/MikeRez0/collectdesk/internal/adapter/push"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/MikeRez0/collectdesk/internal/core/port/mock"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	operator = domain.Actor{SubjectID: 1, Kind: domain.SubjectAdmin}
	customer = domain.Actor{SubjectID: 20, Kind: domain.SubjectCustomer}
)

const orderID = "7b0f3c3e-1f7a-4c55-9d7e-1d2f7e0b6a11"

type testRouter struct {
	router   *handler.Router
	service  *mock.MockService
	registry *push.Registry
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	tokens := mock.NewMockTokenService(ctrl)
	tokens.EXPECT().VerifyToken("operator").Return(&port.TokenPayload{SubjectID: operator.SubjectID, Kind: operator.Kind}, nil).AnyTimes()
	tokens.EXPECT().VerifyToken("customer").Return(&port.TokenPayload{SubjectID: customer.SubjectID, Kind: customer.Kind}, nil).AnyTimes()
	tokens.EXPECT().VerifyToken("expired").Return(nil, domain.ErrExpiredToken).AnyTimes()

	logger := zap.NewNop()
	registry := push.NewRegistry(logger)

	orders, err := handler.NewOrderHandler(svc, logger)
	require.NoError(t, err)
	loans, err := handler.NewLoanHandler(svc, logger)
	require.NoError(t, err)
	stream, err := handler.NewStreamHandler(svc, registry, logger)
	require.NoError(t, err)

	r, err := handler.NewRouter(&config.HTTP{}, tokens, orders, loans, stream, logger)
	require.NoError(t, err)

	return &testRouter{router: r, service: svc, registry: registry}
}

func (tr *testRouter) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	tr.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRouter_Auth(t *testing.T) {
	type authTest struct {
		name      string
		header    string
		expStatus int
	}

	tests := []authTest{
		{name: "no header", header: "", expStatus: http.StatusUnauthorized},
		{name: "wrong format", header: "Bearer", expStatus: http.StatusUnauthorized},
		{name: "wrong type", header: "Basic operator", expStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer expired", expStatus: http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tr := newTestRouter(t)

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if test.header != "" {
				req.Header.Set("Authorization", test.header)
			}
			w := httptest.NewRecorder()
			tr.router.ServeHTTP(w, req)

			assert.Equal(t, test.expStatus, w.Code)
			assert.Equal(t, "authorization", decodeBody(t, w)["kind"])
		})
	}
}

func TestOrderHandler_SubmitOrder(t *testing.T) {
	tr := newTestRouter(t)

	tr.service.EXPECT().
		SubmitOrder(gomock.Any(), customer, port.SubmitOrderRequest{
			LoanID:        10,
			Amount:        decimal.MustParse("550"),
			Periods:       1,
			PaymentMethod: domain.PaymentMethodCash,
			Remark:        "gate 3",
		}).
		Return(&port.SubmitResult{Success: true, Message: "order submitted", OrderID: orderID, Notified: 2}, nil)

	w := tr.do(http.MethodPost, "/api/orders", "customer",
		`{"loan_id":10,"amount":"550","periods":1,"payment_method":"cash","remark":"gate 3"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, orderID, body["order_id"])
	assert.Equal(t, float64(2), body["notified"])
	assert.Equal(t, true, body["success"])
}

func TestOrderHandler_SubmitOrder_BadBody(t *testing.T) {
	tr := newTestRouter(t)

	w := tr.do(http.MethodPost, "/api/orders", "customer", `{"amount":"550"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decodeBody(t, w)["kind"])
}

func TestOrderHandler_ErrorMapping(t *testing.T) {
	type errorTest struct {
		name      string
		err       error
		expStatus int
		expKind   string
	}

	tests := []errorTest{
		{name: "already claimed", err: domain.ErrOrderAlreadyClaimed, expStatus: http.StatusConflict, expKind: "conflict"},
		{name: "expired", err: domain.ErrOrderExpired, expStatus: http.StatusGone, expKind: "conflict"},
		{name: "quota", err: domain.ErrInsufficientQuota, expStatus: http.StatusUnprocessableEntity, expKind: "business"},
		{name: "forbidden", err: domain.ErrForbidden, expStatus: http.StatusForbidden, expKind: "authorization"},
		{name: "not found", err: domain.ErrOrderNotFound, expStatus: http.StatusNotFound, expKind: "not_found"},
		{name: "disabled payee falls back to kind", err: domain.ErrPayeeDisabled, expStatus: http.StatusUnprocessableEntity, expKind: "business"},
		{name: "internal", err: domain.ErrInternal, expStatus: http.StatusInternalServerError, expKind: "internal"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tr := newTestRouter(t)
			tr.service.EXPECT().ClaimOrder(gomock.Any(), operator, orderID).Return(nil, test.err)

			w := tr.do(http.MethodPost, "/api/orders/"+orderID+"/claim", "operator", "")

			assert.Equal(t, test.expStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, test.expKind, body["kind"])
			assert.Equal(t, test.err.Error(), body["error"])
		})
	}
}

func TestOrderHandler_ClaimOrder(t *testing.T) {
	tr := newTestRouter(t)

	payee := uint64(5)
	tr.service.EXPECT().ClaimOrder(gomock.Any(), operator, orderID).Return(&port.ClaimResult{
		Success:       true,
		Message:       "order claimed",
		CollectorID:   5,
		CollectorName: "Ana",
		Order: &domain.Order{
			ID:      orderID,
			Amount:  decimal.MustParse("550"),
			Status:  domain.OrderStatusGrabbed,
			PayeeID: &payee,
		},
	}, nil)

	w := tr.do(http.MethodPost, "/api/orders/"+orderID+"/claim", "operator", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Ana", body["collector_name"])
	order := body["order"].(map[string]any)
	assert.Equal(t, "grabbed", order["status"])
	assert.Equal(t, float64(5), order["payee_id"])
}

func TestOrderHandler_ProcessManualOrder_SplitMismatch(t *testing.T) {
	tr := newTestRouter(t)

	tr.service.EXPECT().
		ProcessManualOrder(gomock.Any(), operator, orderID, port.ManualRequest{
			PeriodCount:   3,
			TotalCapital:  decimal.MustParse("100"),
			TotalInterest: decimal.MustParse("30"),
			Fines:         decimal.MustParse("0"),
		}).
		Return(nil, &domain.SplitMismatchError{
			PeriodIndex: 2,
			Expected:    decimal.MustParse("33"),
			Actual:      decimal.MustParse("40"),
		})

	w := tr.do(http.MethodPost, "/api/orders/"+orderID+"/manual", "operator",
		`{"period_count":3,"total_capital":"100","total_interest":"30","fines":"0"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "business", body["kind"])
	assert.Equal(t, float64(2), body["period"])
	assert.Equal(t, "33", body["expected"])
	assert.Equal(t, "40", body["actual"])
}

func TestOrderHandler_ReviewOrder(t *testing.T) {
	tr := newTestRouter(t)

	paid := decimal.MustParse("550.5")
	tr.service.EXPECT().ReviewOrder(gomock.Any(), operator, orderID, paid).Return(&domain.Order{
		ID:           orderID,
		Status:       domain.OrderStatusCompleted,
		ReviewStatus: domain.ReviewStatusApproved,
		ActualPaid:   &paid,
	}, nil)

	w := tr.do(http.MethodPost, "/api/orders/"+orderID+"/review", "operator", `{"actual_paid":"550.5"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, "approved", body["review_status"])
}

func TestOrderHandler_UpdateStatusAndDelete(t *testing.T) {
	tr := newTestRouter(t)

	tr.service.EXPECT().UpdateOrderStatus(gomock.Any(), operator, orderID, domain.OrderStatusExpired).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusExpired}, nil)
	tr.service.EXPECT().DeleteOrder(gomock.Any(), operator, orderID).Return(nil)

	w := tr.do(http.MethodPatch, "/api/orders/"+orderID+"/status", "operator", `{"status":"expired"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "expired", decodeBody(t, w)["status"])

	w = tr.do(http.MethodDelete, "/api/orders/"+orderID, "operator", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOrderHandler_ListOrders(t *testing.T) {
	tr := newTestRouter(t)

	tr.service.EXPECT().ListOrders(gomock.Any(), operator).Return([]*domain.Order{
		{ID: "a", Status: domain.OrderStatusPending},
		{ID: "b", Status: domain.OrderStatusGrabbed},
	}, nil)

	w := tr.do(http.MethodGet, "/api/orders", "operator", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0]["id"])
	assert.Equal(t, "grabbed", list[1]["status"])
}

func TestLoanHandler_RepayLoan(t *testing.T) {
	t.Run("applies repayment", func(t *testing.T) {
		tr := newTestRouter(t)

		tr.service.EXPECT().RepayLoan(gomock.Any(), operator, port.RepaymentRequest{
			LoanID:  10,
			Amount:  decimal.MustParse("115"),
			Method:  domain.PaymentMethodQR,
			OrderID: "",
		}).Return(&domain.LoanAccount{ID: 10, TotalPeriods: 3, RepaidPeriods: 1, Status: domain.LoanStatusPending}, nil)

		w := tr.do(http.MethodPost, "/api/loans/10/repayments", "operator", `{"amount":"115","method":"qr"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["repaid_periods"])
		assert.Equal(t, "pending", body["status"])
	})

	t.Run("bad loan id", func(t *testing.T) {
		tr := newTestRouter(t)

		w := tr.do(http.MethodPost, "/api/loans/abc/repayments", "operator", `{"amount":"115","method":"qr"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("exceeds outstanding", func(t *testing.T) {
		tr := newTestRouter(t)

		tr.service.EXPECT().RepayLoan(gomock.Any(), operator, gomock.Any()).Return(nil, domain.ErrAmountExceedsOutstanding)

		w := tr.do(http.MethodPost, "/api/loans/10/repayments", "operator", `{"amount":"1000","method":"cash"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestStreamHandler_RejectedActor(t *testing.T) {
	tr := newTestRouter(t)

	tr.service.EXPECT().ResolveChannel(gomock.Any(), operator).Return(domain.ChannelKind(""), "", domain.ErrForbidden)

	w := tr.do(http.MethodGet, "/api/stream", "operator", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, tr.registry.Len())
}

func TestStreamHandler_RelaysEvents(t *testing.T) {
	tr := newTestRouter(t)
	tr.service.EXPECT().ResolveChannel(gomock.Any(), customer).Return(domain.ChannelCustomer, "20", nil)

	srv := httptest.NewServer(tr.router)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer customer")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	lines := make(chan string, 32)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	waitFor := func(prefix string) string {
		t.Helper()
		timeout := time.After(2 * time.Second)
		for {
			select {
			case l, ok := <-lines:
				require.True(t, ok, "stream closed before %q", prefix)
				if strings.HasPrefix(l, prefix) {
					return l
				}
			case <-timeout:
				require.FailNow(t, "timeout waiting for "+prefix)
			}
		}
	}

	waitFor("event:connected")
	require.NoError(t, tr.registry.Notify(domain.ChannelCustomer, "20", domain.EventOrderGrabbed,
		domain.OrderEvent{OrderID: orderID, Status: domain.OrderStatusGrabbed}))

	waitFor("event:" + domain.EventOrderGrabbed)
	data := waitFor("data:")
	assert.Contains(t, data, orderID)

	tr.registry.Close()
	assert.Eventually(t, func() bool { return tr.registry.Len() == 0 }, time.Second, 10*time.Millisecond)
}
