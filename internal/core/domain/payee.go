package domain

import (
	"fmt"
	"time"

	"github.com/govalues/decimal"
)

// Payee is a field collector with a daily collection quota.
type Payee struct {
	ID             uint64
	AdminID        uint64
	Name           string
	Address        string
	TotalLimit     decimal.Decimal
	RemainingLimit decimal.Decimal
	Disabled       bool
}

// Reserve takes amount from the remaining quota.
func (p *Payee) Reserve(amount decimal.Decimal) error {
	if p.Disabled {
		return ErrPayeeDisabled
	}
	if p.RemainingLimit.Cmp(amount) < 0 {
		return ErrInsufficientQuota
	}
	rest, err := p.RemainingLimit.Sub(amount)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}
	p.RemainingLimit = rest
	return nil
}

// Restore gives amount back, never above the total limit.
func (p *Payee) Restore(amount decimal.Decimal) error {
	rest, err := p.RemainingLimit.Add(amount)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}
	p.RemainingLimit = rest.Min(p.TotalLimit)
	return nil
}

type Credential struct {
	ID      uint64
	PayeeID uint64
	Method  PaymentMethod
	QRURL   string
	Active  bool
}

type Customer struct {
	ID      uint64
	Name    string
	Address string
}

// PayeeRanking accumulates sub-unit remainders of settled payments.
type PayeeRanking struct {
	PayeeID   uint64
	Remainder decimal.Decimal
	UpdatedAt time.Time
}

// DailyStatistics is keyed by payee and date at midnight.
type DailyStatistics struct {
	PayeeID    uint64
	Date       time.Time
	Amount     decimal.Decimal
	Cumulative decimal.Decimal
}
