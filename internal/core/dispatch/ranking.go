// Package dispatch decides when each eligible payee hears about a new order.
package dispatch

import (
	"sort"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/govalues/decimal"
)

const (
	RepeatBonus  = 1000
	AddressBonus = 500
)

type Delays struct {
	Repeat  time.Duration
	Address time.Duration
	Default time.Duration
}

// Snapshot is everything ranking needs, read before ranking starts.
type Snapshot struct {
	Customer *domain.Customer
	Amount   decimal.Decimal
	// Payees already hold an active credential for the order's payment method.
	Payees []*domain.Payee
	// Served holds payees with a settled payment from this customer.
	Served map[uint64]bool
}

type Candidate struct {
	Payee    *domain.Payee
	Priority int
	Delay    time.Duration
}

// Rank orders payees by priority. It is advisory: it only sets notification delays.
func Rank(s Snapshot, d Delays) []Candidate {
	candidates := make([]Candidate, 0, len(s.Payees))
	for _, p := range s.Payees {
		if p.Disabled || p.RemainingLimit.Cmp(s.Amount) < 0 {
			continue
		}

		c := Candidate{Payee: p, Delay: d.Default}
		addressMatch := s.Customer != nil && p.Address != "" && p.Address == s.Customer.Address
		if addressMatch {
			c.Priority += AddressBonus
			c.Delay = d.Address
		}
		if s.Served[p.ID] {
			c.Priority += RepeatBonus
			c.Delay = d.Repeat
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates
}
