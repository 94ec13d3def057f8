// Package ledger rolls allocation results up into loan totals, payee ranking
// remainders and daily collection statistics. Callers persist the mutated
// settlement in the same transaction as the schedule changes.
package ledger

import (
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/allocation"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/utils"
	"github.com/govalues/decimal"
)

// Attribution is who paid and who is credited for a payment event.
type Attribution struct {
	Method     domain.PaymentMethod
	OperatorID uint64
}

// Record appends one repayment record per allocation entry.
func Record(s *domain.Settlement, result *allocation.Result, attr Attribution) {
	for _, e := range result.Entries {
		s.Records = append(s.Records, newRecord(s, e.Period.ID, attr, e.Amount, e.Capital, e.Interest, e.Fines))
	}
}

// RecordUnallocated appends a record that keeps the paid amount against the
// first open period without attributing capital or interest.
func RecordUnallocated(s *domain.Settlement, period *domain.SchedulePeriod, amount decimal.Decimal, attr Attribution) {
	s.Records = append(s.Records, newRecord(s, period.ID, attr, amount, decimal.Zero, decimal.Zero, decimal.Zero))
}

func newRecord(s *domain.Settlement, periodID uint64, attr Attribution,
	amount, capital, interest, fines decimal.Decimal) *domain.RepaymentRecord {
	r := &domain.RepaymentRecord{
		LoanID:        s.Loan.ID,
		PeriodID:      periodID,
		CustomerID:    s.Loan.CustomerID,
		Amount:        amount,
		Capital:       capital,
		Interest:      interest,
		Fines:         fines,
		PaymentMethod: attr.Method,
		OperatorID:    attr.OperatorID,
		CreatedAt:     s.At,
	}
	if s.Order != nil {
		r.OrderID = s.Order.ID
		r.ActualCollectorID = s.Order.PayeeID
	}
	return r
}

// Increment adds the allocation to the loan totals and reports whether the loan became settled.
func Increment(loan *domain.LoanAccount, result *allocation.Result, at time.Time) (bool, error) {
	c := utils.Calc{}
	for _, e := range result.Entries {
		loan.ReceivedAmount = c.Add(loan.ReceivedAmount, e.Amount)
		loan.PaidCapital = c.Add(loan.PaidCapital, e.Capital)
		loan.PaidInterest = c.Add(loan.PaidInterest, e.Interest)
		loan.TotalFines = c.Add(loan.TotalFines, e.Fines)
	}
	if err := c.Err(); err != nil {
		return false, err
	}
	loan.RepaidPeriods += result.Settled
	return settleIfComplete(loan, at), nil
}

// Recompute derives the loan totals from the whole schedule.
func Recompute(loan *domain.LoanAccount, periods []*domain.SchedulePeriod, at time.Time) (bool, error) {
	c := utils.Calc{}
	received, capital, interest, fines := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	repaid := 0
	for _, p := range periods {
		received = c.Add(received, p.PaidAmount)
		capital = c.Add(capital, p.PaidCapital)
		interest = c.Add(interest, p.PaidInterest)
		fines = c.Add(fines, p.PaidFines)
		if p.Settled() {
			repaid++
		}
	}
	if err := c.Err(); err != nil {
		return false, err
	}

	loan.ReceivedAmount = received
	loan.PaidCapital = capital
	loan.PaidInterest = interest
	loan.TotalFines = fines
	loan.RepaidPeriods = repaid
	return settleIfComplete(loan, at), nil
}

func settleIfComplete(loan *domain.LoanAccount, at time.Time) bool {
	if loan.Status == domain.LoanStatusSettled || loan.RepaidPeriods < loan.TotalPeriods {
		return false
	}
	loan.Status = domain.LoanStatusSettled
	loan.SettledAt = &at
	return true
}

// CreditPayee adds the sub-unit remainder of amount to the ranking and the
// integer part to the daily statistics.
func CreditPayee(s *domain.Settlement, amount decimal.Decimal) error {
	if s.Ranking == nil || s.Daily == nil {
		return nil
	}
	whole, frac := utils.IntFrac(amount)

	c := utils.Calc{}
	s.Ranking.Remainder = c.Add(s.Ranking.Remainder, frac)
	s.Ranking.UpdatedAt = s.At
	s.Daily.Amount = c.Add(s.Daily.Amount, whole)
	s.Daily.Cumulative = c.Add(s.Daily.Cumulative, whole)
	return c.Err()
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
