package dispatch

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Key struct {
	OrderID string
	PayeeID uint64
}

// Scheduler runs delayed notification tasks keyed by order and payee.
// Cancelling an order stops its timers that have not fired yet; a task that
// already started is not interrupted, so tasks re-check order state themselves.
type Scheduler struct {
	mu     sync.Mutex
	seq    uint64
	timers map[string]map[uint64]scheduled
	logger *zap.Logger
}

type scheduled struct {
	timer *time.Timer
	seq   uint64
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[string]map[uint64]scheduled),
		logger: logger,
	}
}

func (s *Scheduler) Schedule(key Key, delay time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPayee, ok := s.timers[key.OrderID]
	if !ok {
		byPayee = make(map[uint64]scheduled)
		s.timers[key.OrderID] = byPayee
	}
	if old, ok := byPayee[key.PayeeID]; ok {
		old.timer.Stop()
	}

	s.seq++
	seq := s.seq
	timer := time.AfterFunc(delay, func() {
		if !s.release(key, seq) {
			return
		}
		task()
	})
	byPayee[key.PayeeID] = scheduled{timer: timer, seq: seq}

	s.logger.Debug("notification scheduled",
		zap.String("order", key.OrderID),
		zap.Uint64("payee", key.PayeeID),
		zap.Duration("delay", delay))
}

// release drops the timer entry and reports whether it was still the current one.
func (s *Scheduler) release(key Key, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPayee, ok := s.timers[key.OrderID]
	if !ok {
		return false
	}
	if current, ok := byPayee[key.PayeeID]; !ok || current.seq != seq {
		return false
	}
	delete(byPayee, key.PayeeID)
	if len(byPayee) == 0 {
		delete(s.timers, key.OrderID)
	}
	return true
}

// Cancel stops pending tasks of the order and returns how many were stopped.
func (s *Scheduler) Cancel(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped := 0
	for _, t := range s.timers[orderID] {
		if t.timer.Stop() {
			stopped++
		}
	}
	delete(s.timers, orderID)

	if stopped > 0 {
		s.logger.Debug("notifications cancelled", zap.String("order", orderID), zap.Int("count", stopped))
	}
	return stopped
}

// Pending returns the number of tasks waiting for the order.
func (s *Scheduler) Pending(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[orderID])
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for orderID, byPayee := range s.timers {
		for _, t := range byPayee {
			t.timer.Stop()
		}
		delete(s.timers, orderID)
	}
}
