package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type received struct {
	Kind      string         `json:"kind"`
	Recipient string         `json:"recipient"`
	Payload   map[string]any `json:"payload"`
}

func TestMailClient_Delivers(t *testing.T) {
	got := make(chan received, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m received
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		got <- m
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := NewMailClient(&config.Mail{Endpoint: srv.URL, Workers: 1, QueueSize: 4}, zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Run(ctx)

	c.SendEmail("order_settled", "ops@example.com", map[string]any{"order_id": "o1"})

	select {
	case m := <-got:
		assert.Equal(t, "order_settled", m.Kind)
		assert.Equal(t, "ops@example.com", m.Recipient)
		assert.Equal(t, "o1", m.Payload["order_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("mail was not delivered")
	}
}

func TestMailClient_RetriesAfterTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		close(done)
	}))
	defer srv.Close()

	c, err := NewMailClient(&config.Mail{Endpoint: srv.URL, Workers: 2, QueueSize: 4}, zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Run(ctx)

	c.SendEmail("loan_settled", "ops@example.com", nil)

	select {
	case <-done:
		assert.Equal(t, int32(2), calls.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("mail was not retried")
	}
}

func TestMailClient_NeverBlocks(t *testing.T) {
	c, err := NewMailClient(&config.Mail{Endpoint: "http://127.0.0.1:1", Workers: 1, QueueSize: 1}, zap.NewNop())
	require.NoError(t, err)

	// no workers running: the second mail is dropped instead of blocking
	finished := make(chan struct{})
	go func() {
		c.SendEmail("a", "r", nil)
		c.SendEmail("b", "r", nil)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("SendEmail blocked")
	}
	assert.Len(t, c.mailQueue, 1)
}

func TestMailClient_SkipsWithoutEndpoint(t *testing.T) {
	c, err := NewMailClient(&config.Mail{Workers: 1, QueueSize: 1}, zap.NewNop())
	require.NoError(t, err)

	c.SendEmail("a", "r", nil)
	assert.Empty(t, c.mailQueue)
}

func TestNewMailClient_Validates(t *testing.T) {
	_, err := NewMailClient(&config.Mail{Workers: 0, QueueSize: 1}, zap.NewNop())
	assert.Error(t, err)
}
