// Package push tracks live push channels of payees and customers.
package push

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("channel is not connected")

// Channel is one live connection able to deliver events.
type Channel interface {
	Send(event string, payload any) error
	Close()
}

type Options struct {
	// Identity is the payee or customer id; empty for anonymous channels.
	Identity string
}

// Registry maps identities to channels. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	channels   map[string]Channel
	identities map[domain.ChannelKind]map[string]string
	logger     *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		channels: make(map[string]Channel),
		identities: map[domain.ChannelKind]map[string]string{
			domain.ChannelPayee:    make(map[string]string),
			domain.ChannelCustomer: make(map[string]string),
		},
		logger: logger,
	}
}

// Register stores the channel and returns its id. A newer channel of the same
// identity takes over its notifications.
func (r *Registry) Register(kind domain.ChannelKind, ch Channel, opts Options) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.channels[id] = ch
	if byIdentity, ok := r.identities[kind]; ok && opts.Identity != "" {
		byIdentity[opts.Identity] = id
	}

	r.logger.Debug("channel registered",
		zap.String("id", id),
		zap.String("kind", string(kind)),
		zap.String("identity", opts.Identity))
	return id
}

// Unregister forgets the channel. Unknown ids are ignored.
func (r *Registry) Unregister(id string, kind domain.ChannelKind, opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[id]; !ok {
		return
	}
	delete(r.channels, id)
	if byIdentity, ok := r.identities[kind]; ok && opts.Identity != "" {
		// keep a newer channel of the same identity
		if byIdentity[opts.Identity] == id {
			delete(byIdentity, opts.Identity)
		}
	}

	r.logger.Debug("channel unregistered", zap.String("id", id), zap.String("kind", string(kind)))
}

func (r *Registry) Resolve(kind domain.ChannelKind, identity string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.identities[kind][identity]
	return id, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Notify sends the event to the identity's channel. Sending happens outside the lock.
func (r *Registry) Notify(kind domain.ChannelKind, identity string, event string, payload any) error {
	r.mu.RLock()
	id, ok := r.identities[kind][identity]
	ch := r.channels[id]
	r.mu.RUnlock()

	if !ok || ch == nil {
		return fmt.Errorf("%s %s: %w", kind, identity, ErrNotConnected)
	}
	if err := ch.Send(event, payload); err != nil {
		return fmt.Errorf("send %s to %s %s: %w", event, kind, identity, err)
	}
	return nil
}

// Close closes every channel, used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ch := range r.channels {
		ch.Close()
		delete(r.channels, id)
	}
	for _, byIdentity := range r.identities {
		for identity := range byIdentity {
			delete(byIdentity, identity)
		}
	}
}
