package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	orderHandler *OrderHandler,
	loanHandler *LoanHandler,
	streamHandler *StreamHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	auth := authCheck(NewHandler(logger), tokenService)

	api := router.Group("/api")
	api.Use(auth)
	{
		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.SubmitOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.POST("/:id/claim", orderHandler.ClaimOrder)
			orders.POST("/:id/feedback", orderHandler.ReportPaymentFeedback)
			orders.POST("/:id/review", orderHandler.ReviewOrder)
			orders.POST("/:id/manual", orderHandler.ProcessManualOrder)
			orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}

		loans := api.Group("/loans")
		{
			loans.POST("/:id/repayments", loanHandler.RepayLoan)
		}

		api.GET("/stream", streamHandler.Stream)
	}

	return &Router{router}, nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Debug("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP server until ctx is done, then shuts it down gracefully.
// onShutdown hooks release long lived streams so the shutdown can finish.
func (r *Router) Serve(ctx context.Context, listenAddr string, onShutdown ...func()) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	for _, f := range onShutdown {
		srv.RegisterOnShutdown(f)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
