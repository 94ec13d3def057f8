package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type PeriodStatus string

const (
	PeriodStatusPending     PeriodStatus = "pending"
	PeriodStatusActive      PeriodStatus = "active"
	PeriodStatusPaid        PeriodStatus = "paid"
	PeriodStatusOverdue     PeriodStatus = "overdue"
	PeriodStatusOverduePaid PeriodStatus = "overdue_paid"
)

// SchedulePeriod is one installment of a loan.
type SchedulePeriod struct {
	ID           uint64
	LoanID       uint64
	Index        int
	DueStart     time.Time
	DueEnd       time.Time
	DueAmount    decimal.Decimal
	Capital      decimal.Decimal
	Interest     decimal.Decimal
	Fines        decimal.Decimal
	PaidCapital  decimal.Decimal
	PaidInterest decimal.Decimal
	PaidFines    decimal.Decimal
	PaidAmount   decimal.Decimal
	Status       PeriodStatus
	SettledAt    *time.Time
	OperatorID   *uint64
}

func (p *SchedulePeriod) Settled() bool {
	return p.Status == PeriodStatusPaid || p.Status == PeriodStatusOverduePaid
}

// MarkSettled moves the period to its terminal status.
func (p *SchedulePeriod) MarkSettled(at time.Time, operatorID uint64) {
	if p.Status == PeriodStatusOverdue {
		p.Status = PeriodStatusOverduePaid
	} else {
		p.Status = PeriodStatusPaid
	}
	p.SettledAt = &at
	p.OperatorID = &operatorID
}

type LoanStatus string

const (
	LoanStatusPending LoanStatus = "pending"
	LoanStatusSettled LoanStatus = "settled"
)

// MoneyScale is the number of decimal places money is kept with.
const MoneyScale = 2

// CheckAmount accepts a positive amount of at most MoneyScale decimal places.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPos() {
		return ErrInvalidAmount
	}
	return CheckShare(amount)
}

// CheckShare is CheckAmount that also accepts zero.
func CheckShare(amount decimal.Decimal) error {
	if amount.IsNeg() || amount.Scale() > MoneyScale {
		return ErrInvalidAmount
	}
	return nil
}

// LoanAccount holds running totals derived from the schedule.
type LoanAccount struct {
	ID             uint64
	CustomerID     uint64
	TotalPeriods   int
	ReceivedAmount decimal.Decimal
	PaidCapital    decimal.Decimal
	PaidInterest   decimal.Decimal
	TotalFines     decimal.Decimal
	RepaidPeriods  int
	Status         LoanStatus
	SettledAt      *time.Time
}

// RepaymentRecord is an immutable receipt for the part of a payment applied to one period.
type RepaymentRecord struct {
	ID                uint64
	LoanID            uint64
	PeriodID          uint64
	OrderID           string
	CustomerID        uint64
	Amount            decimal.Decimal
	Capital           decimal.Decimal
	Interest          decimal.Decimal
	Fines             decimal.Decimal
	PaymentMethod     PaymentMethod
	ActualCollectorID *uint64
	OperatorID        uint64
	CreatedAt         time.Time
}

// Settlement is the unit of work of one payment event. The repository loads it
// under row locks and persists every part of it in the same transaction.
type Settlement struct {
	At      time.Time
	Order   *Order
	Loan    *LoanAccount
	Periods []*SchedulePeriod
	Records []*RepaymentRecord
	Ranking *PayeeRanking
	Daily   *DailyStatistics
}

// CheckOwner rejects an order settled against a loan of another customer.
func (s *Settlement) CheckOwner() error {
	if s.Order != nil && s.Order.CustomerID != s.Loan.CustomerID {
		return ErrForbidden
	}
	return nil
}

// OpenPeriods returns not yet settled periods in due order.
func (s *Settlement) OpenPeriods() []*SchedulePeriod {
	open := make([]*SchedulePeriod, 0, len(s.Periods))
	for _, p := range s.Periods {
		if !p.Settled() {
			open = append(open, p)
		}
	}
	return open
}
