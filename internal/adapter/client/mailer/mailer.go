package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	maxAttempts       = 3
	defaultRetryAfter = 10 * time.Second
)

type MailClient struct {
	logger    *zap.Logger
	endpoint  string
	client    *resty.Client
	mailQueue chan mail
	workers   int

	mu          sync.Mutex
	pausedUntil time.Time
}

func NewMailClient(cfg *config.Mail, log *zap.Logger) (*MailClient, error) {
	if cfg.Workers < 1 || cfg.QueueSize < 1 {
		return nil, fmt.Errorf("mail workers and queue size must be positive: %d, %d", cfg.Workers, cfg.QueueSize)
	}
	return &MailClient{
		logger:    log,
		endpoint:  cfg.Endpoint,
		client:    resty.New().SetTimeout(10 * time.Second),
		mailQueue: make(chan mail, cfg.QueueSize),
		workers:   cfg.Workers,
	}, nil
}

type mail struct {
	Kind      string `json:"kind"`
	Recipient string `json:"recipient"`
	Payload   any    `json:"payload"`
	attempt   int
}

type errMailRequest struct {
	RetryAfter time.Duration
}

func (e *errMailRequest) Error() string {
	return fmt.Sprintf("Too Many Requests. Retry-After: %s", e.RetryAfter)
}

// SendEmail queues the mail and returns at once. A full queue drops the mail.
func (c *MailClient) SendEmail(kind string, recipient string, payload any) {
	if c.endpoint == "" {
		c.logger.Debug("mail gateway is not configured, mail skipped", zap.String("kind", kind))
		return
	}

	select {
	case c.mailQueue <- mail{Kind: kind, Recipient: recipient, Payload: payload}:
	default:
		c.logger.Warn("mail queue is full, mail dropped", zap.String("kind", kind))
	}
}

// Run starts the delivery workers. They stop with ctx.
func (c *MailClient) Run(ctx context.Context) {
	for range c.workers {
		go func() {
			for {
				select {
				case m := <-c.mailQueue:
					c.deliver(ctx, m)
				case <-ctx.Done():
					c.logger.Debug("Finished mail worker")
					return
				}
			}
		}()
	}
}

func (c *MailClient) deliver(ctx context.Context, m mail) {
	c.waitPause(ctx)

	m.attempt++
	err := c.post(ctx, m)
	if err == nil {
		c.logger.Debug("mail sent", zap.String("kind", m.Kind))
		return
	}

	if e, ok := err.(*errMailRequest); ok && m.attempt < maxAttempts {
		c.logger.Debug("Mail gateway asks to wait",
			zap.String("kind", m.Kind),
			zap.Duration("retry-after", e.RetryAfter))
		c.pause(e.RetryAfter)
		go c.requeue(ctx, m)
		return
	}

	c.logger.Error("mail not delivered",
		zap.String("kind", m.Kind),
		zap.Int("attempt", m.attempt),
		zap.Error(err))
}

func (c *MailClient) requeue(ctx context.Context, m mail) {
	select {
	case c.mailQueue <- m:
	case <-ctx.Done():
	}
}

func (c *MailClient) pause(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if until := time.Now().Add(d); until.After(c.pausedUntil) {
		c.pausedUntil = until
	}
}

func (c *MailClient) waitPause(ctx context.Context) {
	c.mu.Lock()
	wait := time.Until(c.pausedUntil)
	c.mu.Unlock()
	if wait <= 0 {
		return
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (c *MailClient) post(ctx context.Context, m mail) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(m).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("request error %s : %w", c.endpoint, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if sec, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
			retryAfter = time.Duration(sec) * time.Second
		}
		return &errMailRequest{RetryAfter: retryAfter}
	default:
		return fmt.Errorf("bad response %d for mail %s", resp.StatusCode(), m.Kind)
	}
}
