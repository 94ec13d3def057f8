package allocation

import (
	"fmt"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/utils"
	"github.com/govalues/decimal"
)

// Decision tells whether an actual paid amount can be applied without an operator.
type Decision struct {
	Auto           bool
	Periods        int
	FirstAmount    decimal.Decimal
	FirstTwoAmount decimal.Decimal
}

// Match compares the integer part of actual with the capital plus interest
// still owed on the first open period, then on the first two open periods.
func Match(actual decimal.Decimal, open []*domain.SchedulePeriod) (Decision, error) {
	if len(open) == 0 {
		return Decision{}, domain.ErrNotEnoughPeriods
	}

	c := utils.Calc{}
	d := Decision{}
	capital, interest := owed(&c, open[0])
	d.FirstAmount = c.Add(capital, interest)
	if len(open) > 1 {
		capital, interest = owed(&c, open[1])
		d.FirstTwoAmount = c.Sum(d.FirstAmount, capital, interest)
	}
	if err := c.Err(); err != nil {
		return Decision{}, err
	}

	whole, _ := utils.IntFrac(actual)
	switch {
	case whole.Cmp(d.FirstAmount) == 0:
		d.Auto, d.Periods = true, 1
	case len(open) > 1 && whole.Cmp(d.FirstTwoAmount) == 0:
		d.Auto, d.Periods = true, 2
	}
	return d, nil
}

// owed is the unpaid capital and interest of a period.
func owed(c *utils.Calc, p *domain.SchedulePeriod) (decimal.Decimal, decimal.Decimal) {
	return c.Sub(p.Capital, p.PaidCapital), c.Sub(p.Interest, p.PaidInterest)
}

type ManualSplit struct {
	PeriodCount   int
	TotalCapital  decimal.Decimal
	TotalInterest decimal.Decimal
	Fines         decimal.Decimal
}

// Shares returns per period capital and interest: floor of the even share for
// every period and the remainder on the last one.
func (s ManualSplit) Shares() ([]decimal.Decimal, []decimal.Decimal, error) {
	if s.PeriodCount < 1 {
		return nil, nil, domain.ErrBadRequest
	}

	c := utils.Calc{}
	baseCapital := c.FloorDiv(s.TotalCapital, s.PeriodCount)
	baseInterest := c.FloorDiv(s.TotalInterest, s.PeriodCount)
	n, err := decimal.New(int64(s.PeriodCount-1), 0)
	if err != nil {
		return nil, nil, err
	}
	lastCapital := c.Sub(s.TotalCapital, c.Mul(baseCapital, n))
	lastInterest := c.Sub(s.TotalInterest, c.Mul(baseInterest, n))
	if err := c.Err(); err != nil {
		return nil, nil, err
	}

	capital := make([]decimal.Decimal, s.PeriodCount)
	interest := make([]decimal.Decimal, s.PeriodCount)
	for i := range capital {
		capital[i], interest[i] = baseCapital, baseInterest
	}
	capital[s.PeriodCount-1] = lastCapital
	interest[s.PeriodCount-1] = lastInterest
	return capital, interest, nil
}

// SplitManual settles the first PeriodCount open periods with an operator
// supplied split. Fines go to the last period. Every period but the last must
// owe exactly its capital share; no share may exceed what the period still owes.
func SplitManual(s ManualSplit, open []*domain.SchedulePeriod, at time.Time, operatorID uint64) (*Result, error) {
	for _, v := range []decimal.Decimal{s.TotalCapital, s.TotalInterest, s.Fines} {
		if err := domain.CheckShare(v); err != nil {
			return nil, err
		}
	}
	capital, interest, err := s.Shares()
	if err != nil {
		return nil, err
	}
	if len(open) < s.PeriodCount {
		return nil, domain.ErrNotEnoughPeriods
	}

	periods := open[:s.PeriodCount]
	c := utils.Calc{}
	for i, p := range periods {
		owedCapital, owedInterest := owed(&c, p)
		if err := c.Err(); err != nil {
			return nil, err
		}
		last := i == len(periods)-1
		if (!last && owedCapital.Cmp(capital[i]) != 0) || capital[i].Cmp(owedCapital) > 0 {
			return nil, &domain.SplitMismatchError{
				PeriodIndex: p.Index,
				Expected:    capital[i],
				Actual:      owedCapital,
			}
		}
		if interest[i].Cmp(owedInterest) > 0 {
			return nil, fmt.Errorf("%w: period %d interest share %s exceeds owed %s",
				domain.ErrManualSplitMismatch, p.Index, interest[i], owedInterest)
		}
	}

	result := &Result{Unapplied: decimal.Zero}
	for i, p := range periods {
		e := Entry{Period: p, Capital: capital[i], Interest: interest[i], Fines: decimal.Zero}
		if i == len(periods)-1 {
			e.Fines = s.Fines
		}
		e.Amount = c.Sum(e.Capital, e.Interest, e.Fines)

		p.PaidCapital = c.Add(p.PaidCapital, e.Capital)
		p.PaidInterest = c.Add(p.PaidInterest, e.Interest)
		p.PaidFines = c.Add(p.PaidFines, e.Fines)
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
