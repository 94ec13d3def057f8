package utils

import (
	"fmt"

	"github.com/govalues/decimal"
)

// Calc chains decimal arithmetic and keeps the first overflow error.
// After an error every operation returns its left operand unchanged.
type Calc struct {
	err error
}

func (c *Calc) Err() error {
	if c.err != nil {
		return fmt.Errorf("math error: %w", c.err)
	}
	return nil
}

func (c *Calc) Add(a, b decimal.Decimal) decimal.Decimal {
	if c.err != nil {
		return a
	}
	r, err := a.Add(b)
	if err != nil {
		c.err = err
		return a
	}
	return r
}

func (c *Calc) Sub(a, b decimal.Decimal) decimal.Decimal {
	if c.err != nil {
		return a
	}
	r, err := a.Sub(b)
	if err != nil {
		c.err = err
		return a
	}
	return r
}

func (c *Calc) Mul(a, b decimal.Decimal) decimal.Decimal {
	if c.err != nil {
		return a
	}
	r, err := a.Mul(b)
	if err != nil {
		c.err = err
		return a
	}
	return r
}

// Sum adds all values.
func (c *Calc) Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = c.Add(total, v)
	}
	return total
}

// FloorDiv returns floor(a / n) for a non negative a.
func (c *Calc) FloorDiv(a decimal.Decimal, n int) decimal.Decimal {
	if c.err != nil {
		return a
	}
	d, err := decimal.New(int64(n), 0)
	if err != nil {
		c.err = err
		return a
	}
	q, _, err := a.QuoRem(d)
	if err != nil {
		c.err = err
		return a
	}
	return q
}

// IntFrac splits a non negative amount into its integer part and the sub-unit remainder.
func IntFrac(a decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	whole := a.Trunc(0)
	frac, err := a.Sub(whole)
	if err != nil {
		return whole, decimal.Zero
	}
	return whole, frac
}
