package dispatch_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/dispatch"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var delays = dispatch.Delays{Repeat: time.Second, Address: 60 * time.Second, Default: 30 * time.Second}

func payee(id uint64, address, remaining string) *domain.Payee {
	return &domain.Payee{
		ID:             id,
		Name:           "payee",
		Address:        address,
		TotalLimit:     decimal.MustParse("10000"),
		RemainingLimit: decimal.MustParse(remaining),
	}
}

func TestRank(t *testing.T) {
	customer := &domain.Customer{ID: 1, Address: "Main st 1"}

	type rankTest struct {
		name     string
		snapshot dispatch.Snapshot
		expIDs   []uint64
		expPrio  []int
		expDelay []time.Duration
	}

	tests := []rankTest{
		{
			name: "repeat beats address beats default",
			snapshot: dispatch.Snapshot{
				Customer: customer,
				Amount:   decimal.Hundred,
				Payees: []*domain.Payee{
					payee(1, "Other st", "500"),
					payee(2, "Main st 1", "500"),
					payee(3, "Other st", "500"),
				},
				Served: map[uint64]bool{3: true},
			},
			expIDs:   []uint64{3, 2, 1},
			expPrio:  []int{1000, 500, 0},
			expDelay: []time.Duration{time.Second, 60 * time.Second, 30 * time.Second},
		},
		{
			name: "both bonuses add up",
			snapshot: dispatch.Snapshot{
				Customer: customer,
				Amount:   decimal.Hundred,
				Payees:   []*domain.Payee{payee(1, "Other st", "500"), payee(2, "Main st 1", "500")},
				Served:   map[uint64]bool{2: true},
			},
			expIDs:   []uint64{2, 1},
			expPrio:  []int{1500, 0},
			expDelay: []time.Duration{time.Second, 30 * time.Second},
		},
		{
			name: "insufficient quota and disabled are excluded",
			snapshot: dispatch.Snapshot{
				Customer: customer,
				Amount:   decimal.Hundred,
				Payees: []*domain.Payee{
					payee(1, "Main st 1", "99.99"),
					{ID: 2, Disabled: true, RemainingLimit: decimal.MustParse("500")},
					payee(3, "", "100"),
				},
			},
			expIDs:   []uint64{3},
			expPrio:  []int{0},
			expDelay: []time.Duration{30 * time.Second},
		},
		{
			name: "ties keep input order",
			snapshot: dispatch.Snapshot{
				Customer: customer,
				Amount:   decimal.One,
				Payees:   []*domain.Payee{payee(4, "", "5"), payee(2, "", "5"), payee(9, "", "5")},
			},
			expIDs:   []uint64{4, 2, 9},
			expPrio:  []int{0, 0, 0},
			expDelay: []time.Duration{30 * time.Second, 30 * time.Second, 30 * time.Second},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := dispatch.Rank(test.snapshot, delays)

			ids := make([]uint64, 0, len(result))
			prio := make([]int, 0, len(result))
			delay := make([]time.Duration, 0, len(result))
			for _, c := range result {
				ids = append(ids, c.Payee.ID)
				prio = append(prio, c.Priority)
				delay = append(delay, c.Delay)
			}
			assert.Equal(t, test.expIDs, ids)
			assert.Equal(t, test.expPrio, prio)
			assert.Equal(t, test.expDelay, delay)
		})
	}
}

func TestScheduler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("runs tasks", func(t *testing.T) {
		s := dispatch.NewScheduler(logger)
		var fired atomic.Int32
		s.Schedule(dispatch.Key{OrderID: "a", PayeeID: 1}, time.Millisecond, func() { fired.Add(1) })
		s.Schedule(dispatch.Key{OrderID: "a", PayeeID: 2}, time.Millisecond, func() { fired.Add(1) })

		assert.Eventually(t, func() bool { return fired.Load() == 2 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, 0, s.Pending("a"))
	})

	t.Run("cancel stops pending tasks", func(t *testing.T) {
		s := dispatch.NewScheduler(logger)
		var fired atomic.Int32
		s.Schedule(dispatch.Key{OrderID: "b", PayeeID: 1}, time.Hour, func() { fired.Add(1) })
		s.Schedule(dispatch.Key{OrderID: "b", PayeeID: 2}, time.Hour, func() { fired.Add(1) })
		s.Schedule(dispatch.Key{OrderID: "c", PayeeID: 1}, time.Hour, func() { fired.Add(1) })

		assert.Equal(t, 2, s.Cancel("b"))
		assert.Equal(t, 0, s.Pending("b"))
		assert.Equal(t, 1, s.Pending("c"))
		assert.Equal(t, 0, s.Cancel("unknown"))
		s.Stop()
		assert.Equal(t, int32(0), fired.Load())
	})

	t.Run("rescheduling replaces the task", func(t *testing.T) {
		s := dispatch.NewScheduler(logger)
		var first, second atomic.Int32
		key := dispatch.Key{OrderID: "d", PayeeID: 1}
		s.Schedule(key, 20*time.Millisecond, func() { first.Add(1) })
		s.Schedule(key, time.Millisecond, func() { second.Add(1) })

		assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, int32(0), first.Load())
	})
}
