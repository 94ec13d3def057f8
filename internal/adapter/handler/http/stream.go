package http

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/MikeRez0/collectdesk/internal/adapter/push"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	streamBuffer    = 16
	streamKeepAlive = 25 * time.Second
)

var errChannelFull = errors.New("channel buffer is full")

type sseEvent struct {
	name    string
	payload any
}

// sseChannel buffers events for one server-sent events response.
type sseChannel struct {
	events chan sseEvent
	done   chan struct{}
	once   sync.Once
}

func newSSEChannel(buffer int) *sseChannel {
	return &sseChannel{
		events: make(chan sseEvent, buffer),
		done:   make(chan struct{}),
	}
}

// Send never blocks; a slow reader loses events instead of stalling the sender.
func (c *sseChannel) Send(event string, payload any) error {
	select {
	case <-c.done:
		return push.ErrNotConnected
	default:
	}

	select {
	case c.events <- sseEvent{name: event, payload: payload}:
		return nil
	default:
		return errChannelFull
	}
}

func (c *sseChannel) Close() {
	c.once.Do(func() { close(c.done) })
}

type StreamHandler struct {
	Handler
	service   port.Service
	registry  *push.Registry
	keepAlive time.Duration
}

func NewStreamHandler(service port.Service, registry *push.Registry, logger *zap.Logger) (*StreamHandler, error) {
	if registry == nil {
		return nil, errors.New("push registry is nil")
	}
	return &StreamHandler{
		Handler:   *NewHandler(logger),
		service:   service,
		registry:  registry,
		keepAlive: streamKeepAlive,
	}, nil
}

// Stream registers the caller in the push registry and relays its events
// until the client goes away or the registry closes the channel.
func (sh *StreamHandler) Stream(ctx *gin.Context) {
	kind, identity, err := sh.service.ResolveChannel(ctx, getActor(ctx))
	if err != nil {
		sh.handleError(ctx, err)
		return
	}

	ch := newSSEChannel(streamBuffer)
	opts := push.Options{Identity: identity}
	id := sh.registry.Register(kind, ch, opts)
	defer func() {
		sh.registry.Unregister(id, kind, opts)
		ch.Close()
	}()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")
	ctx.Status(http.StatusOK)
	ctx.SSEvent("connected", gin.H{"channel": id, "kind": kind})
	ctx.Writer.Flush()

	ticker := time.NewTicker(sh.keepAlive)
	defer ticker.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case <-ch.done:
			return false
		case e := <-ch.events:
			ctx.SSEvent(e.name, e.payload)
			return true
		case <-ticker.C:
			ctx.SSEvent("ping", "")
			return true
		}
	})

	sh.logger.Debug("stream closed", zap.String("channel", id))
}
