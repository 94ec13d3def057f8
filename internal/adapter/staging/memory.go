// Package staging keeps the set of orders still open for grabbing, with a TTL.
package staging

import (
	"context"
	"sync"
	"time"
)

// Memory is a process local staging area for a single instance deployment.
type Memory struct {
	mu     sync.Mutex
	orders map[string]time.Time
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		orders: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *Memory) Stage(_ context.Context, orderID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, expiresAt := range m.orders {
		if !expiresAt.After(now) {
			delete(m.orders, id)
		}
	}
	m.orders[orderID] = now.Add(ttl)
	return nil
}

func (m *Memory) IsOpen(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt, ok := m.orders[orderID]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(m.now()) {
		delete(m.orders, orderID)
		return false, nil
	}
	return true, nil
}

func (m *Memory) Remove(_ context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.orders, orderID)
	return nil
}
