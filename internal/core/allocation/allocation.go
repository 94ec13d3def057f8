// Package allocation applies payments to a loan's repayment schedule.
//
// All functions mutate the given periods in place and report the incremental
// split per touched period, which becomes one repayment record each.
package allocation

import (
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/utils"
	"github.com/govalues/decimal"
)

// Entry is the part of one payment attributed to a period.
type Entry struct {
	Period   *domain.SchedulePeriod
	Amount   decimal.Decimal
	Capital  decimal.Decimal
	Interest decimal.Decimal
	Fines    decimal.Decimal
}

type Result struct {
	Entries []Entry
	// Settled counts periods moved to a paid status.
	Settled   int
	Unapplied decimal.Decimal
}

// Total is the sum of all entry amounts.
func (r *Result) Total() (decimal.Decimal, error) {
	c := utils.Calc{}
	total := decimal.Zero
	for _, e := range r.Entries {
		total = c.Add(total, e.Amount)
	}
	return total, c.Err()
}

// Waterfall walks periods in due order and applies amount. A period is fully
// settled when the remaining amount covers it; otherwise the rest goes to
// fines, then interest, then capital of that period and the walk stops.
func Waterfall(amount decimal.Decimal, periods []*domain.SchedulePeriod, at time.Time, operatorID uint64) (*Result, error) {
	if err := domain.CheckAmount(amount); err != nil {
		return nil, err
	}

	c := utils.Calc{}
	result := &Result{}
	remaining := amount

	for _, p := range periods {
		if remaining.IsZero() {
			break
		}
		if p.Settled() {
			continue
		}

		periodRemaining := c.Sub(p.DueAmount, p.PaidAmount)
		if remaining.Cmp(periodRemaining) >= 0 {
			e := Entry{
				Period:   p,
				Amount:   periodRemaining,
				Capital:  c.Sub(p.Capital, p.PaidCapital),
				Interest: c.Sub(p.Interest, p.PaidInterest),
				Fines:    c.Sub(p.Fines, p.PaidFines),
			}
			p.PaidCapital = p.Capital
			p.PaidInterest = p.Interest
			p.PaidFines = p.Fines
			p.PaidAmount = p.DueAmount
			p.MarkSettled(at, operatorID)
			result.Settled++
			if periodRemaining.IsPos() {
				result.Entries = append(result.Entries, e)
			}
			remaining = c.Sub(remaining, periodRemaining)
			continue
		}

		e := Entry{Period: p}
		e.Fines = decimal.Zero.Max(c.Sub(p.Fines, p.PaidFines)).Min(remaining)
		remaining = c.Sub(remaining, e.Fines)
		e.Interest = decimal.Zero.Max(c.Sub(p.Interest, p.PaidInterest)).Min(remaining)
		remaining = c.Sub(remaining, e.Interest)
		e.Capital = decimal.Zero.Max(c.Sub(p.Capital, p.PaidCapital)).Min(remaining)
		remaining = c.Sub(remaining, e.Capital)
		e.Amount = c.Sum(e.Fines, e.Interest, e.Capital)

		p.PaidFines = c.Add(p.PaidFines, e.Fines)
		p.PaidInterest = c.Add(p.PaidInterest, e.Interest)
		p.PaidCapital = c.Add(p.PaidCapital, e.Capital)
		p.PaidAmount = c.Add(p.PaidAmount, e.Amount)
		if e.Amount.IsPos() {
			result.Entries = append(result.Entries, e)
		}
		break
	}

	result.Unapplied = remaining
	if err := c.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SettleWhole marks every given period paid using its own capital and interest.
func SettleWhole(periods []*domain.SchedulePeriod, at time.Time, operatorID uint64) (*Result, error) {
	c := utils.Calc{}
	result := &Result{Unapplied: decimal.Zero}

	for _, p := range periods {
		e := Entry{
			Period:   p,
			Capital:  c.Sub(p.Capital, p.PaidCapital),
			Interest: c.Sub(p.Interest, p.PaidInterest),
			Fines:    decimal.Zero,
		}
		e.Amount = c.Add(e.Capital, e.Interest)

		p.PaidCapital = p.Capital
		p.PaidInterest = p.Interest
		p.PaidAmount = c.Add(p.PaidAmount, e.Amount)
		p.MarkSettled(at, operatorID)

		result.Entries = append(result.Entries, e)
		result.Settled++
	}

	if err := c.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Outstanding is what is still due on the unsettled periods.
func Outstanding(periods []*domain.SchedulePeriod) (decimal.Decimal, error) {
	c := utils.Calc{}
	total := decimal.Zero
	for _, p := range periods {
		if p.Settled() {
			continue
		}
		total = c.Add(total, c.Sub(p.DueAmount, p.PaidAmount))
	}
	return total, c.Err()
}
