package allocation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/allocation"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.MustParse(s)
}

func assertDec(t *testing.T, exp string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(exp).Equal(actual), append([]any{"expected %s, actual %s", exp, actual}, msgAndArgs...)...)
}

func period(index int, capital, interest, fines string) *domain.SchedulePeriod {
	c, i, f := dec(capital), dec(interest), dec(fines)
	due, _ := c.Add(i)
	due, _ = due.Add(f)
	return &domain.SchedulePeriod{
		ID:           uint64(index),
		LoanID:       1,
		Index:        index,
		DueAmount:    due,
		Capital:      c,
		Interest:     i,
		Fines:        f,
		PaidCapital:  decimal.Zero,
		PaidInterest: decimal.Zero,
		PaidFines:    decimal.Zero,
		PaidAmount:   decimal.Zero,
		Status:       domain.PeriodStatusActive,
	}
}

func TestWaterfall(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	t.Run("partial payment goes fines, interest, capital", func(t *testing.T) {
		p1, p2 := period(1, "100", "20", "10"), period(2, "100", "20", "0")

		result, err := allocation.Waterfall(dec("115"), []*domain.SchedulePeriod{p1, p2}, at, 7)
		require.NoError(t, err)

		require.Len(t, result.Entries, 1)
		e := result.Entries[0]
		assertDec(t, "10", e.Fines)
		assertDec(t, "20", e.Interest)
		assertDec(t, "85", e.Capital)
		assertDec(t, "115", e.Amount)

		assertDec(t, "115", p1.PaidAmount)
		assert.Equal(t, domain.PeriodStatusActive, p1.Status)
		assert.Nil(t, p1.SettledAt)
		assert.Equal(t, 0, result.Settled)

		assertDec(t, "0", p2.PaidAmount)
		assert.Equal(t, domain.PeriodStatusActive, p2.Status)
		assert.True(t, result.Unapplied.IsZero())
	})

	t.Run("exact due amount settles one period", func(t *testing.T) {
		p1, p2 := period(1, "100", "20", "10"), period(2, "100", "20", "0")

		result, err := allocation.Waterfall(dec("130"), []*domain.SchedulePeriod{p1, p2}, at, 7)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Settled)
		assert.Equal(t, domain.PeriodStatusPaid, p1.Status)
		assert.Equal(t, at, *p1.SettledAt)
		assertDec(t, "130", p1.PaidAmount)
		assertDec(t, "0", p2.PaidAmount)
		assert.Len(t, result.Entries, 1)
	})

	t.Run("spill over records incremental split", func(t *testing.T) {
		p1, p2 := period(1, "100", "20", "10"), period(2, "100", "20", "0")
		p1.PaidFines = dec("10")
		p1.PaidAmount = dec("10")

		result, err := allocation.Waterfall(dec("150"), []*domain.SchedulePeriod{p1, p2}, at, 7)
		require.NoError(t, err)

		require.Len(t, result.Entries, 2)
		assertDec(t, "120", result.Entries[0].Amount)
		assertDec(t, "0", result.Entries[0].Fines)
		assertDec(t, "100", result.Entries[0].Capital)

		assertDec(t, "30", result.Entries[1].Amount)
		assertDec(t, "0", result.Entries[1].Fines)
		assertDec(t, "20", result.Entries[1].Interest)
		assertDec(t, "10", result.Entries[1].Capital)

		total, err := result.Total()
		require.NoError(t, err)
		assertDec(t, "150", total)
	})

	t.Run("overdue period becomes overdue paid", func(t *testing.T) {
		p1 := period(1, "100", "20", "0")
		p1.Status = domain.PeriodStatusOverdue

		_, err := allocation.Waterfall(dec("120"), []*domain.SchedulePeriod{p1}, at, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.PeriodStatusOverduePaid, p1.Status)
	})

	t.Run("settled periods are skipped and excess is reported", func(t *testing.T) {
		p1, p2 := period(1, "100", "20", "0"), period(2, "100", "20", "0")
		p1.Status = domain.PeriodStatusPaid

		result, err := allocation.Waterfall(dec("130.50"), []*domain.SchedulePeriod{p1, p2}, at, 7)
		require.NoError(t, err)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, p2, result.Entries[0].Period)
		assertDec(t, "10.50", result.Unapplied)
	})

	t.Run("fractional amounts are preserved", func(t *testing.T) {
		p1 := period(1, "100", "20", "0")

		result, err := allocation.Waterfall(dec("20.37"), []*domain.SchedulePeriod{p1}, at, 7)
		require.NoError(t, err)
		assertDec(t, "20", result.Entries[0].Interest)
		assertDec(t, "0.37", result.Entries[0].Capital)
	})

	t.Run("non positive amount", func(t *testing.T) {
		_, err := allocation.Waterfall(decimal.Zero, []*domain.SchedulePeriod{period(1, "1", "1", "0")}, at, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestSettleWhole(t *testing.T) {
	at := time.Now()
	p1, p2 := period(1, "500", "50", "5"), period(2, "500", "50", "0")

	result, err := allocation.SettleWhole([]*domain.SchedulePeriod{p1, p2}, at, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Settled)
	for _, e := range result.Entries {
		assertDec(t, "500", e.Capital)
		assertDec(t, "50", e.Interest)
		assertDec(t, "550", e.Amount)
		assert.Equal(t, domain.PeriodStatusPaid, e.Period.Status)
		assert.Equal(t, uint64(3), *e.Period.OperatorID)
	}
	assertDec(t, "0", p1.PaidFines)
}

func TestMatch(t *testing.T) {
	open := []*domain.SchedulePeriod{period(1, "500", "50", "0"), period(2, "500", "50", "0")}

	tests := []struct {
		name    string
		actual  string
		auto    bool
		periods int
	}{
		{name: "first period", actual: "550", auto: true, periods: 1},
		{name: "first two periods", actual: "1100", auto: true, periods: 2},
		{name: "other amount", actual: "700", auto: false},
		// Only the integer part is compared. An earlier revision compared the
		// full amount and would have sent this payment to manual processing.
		{name: "fraction ignored", actual: "550.80", auto: true, periods: 1},
		{name: "one unit short", actual: "549.99", auto: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := allocation.Match(dec(test.actual), open)
			require.NoError(t, err)
			assert.Equal(t, test.auto, d.Auto)
			assert.Equal(t, test.periods, d.Periods)
			assertDec(t, "550", d.FirstAmount)
			assertDec(t, "1100", d.FirstTwoAmount)
		})
	}

	t.Run("single open period", func(t *testing.T) {
		d, err := allocation.Match(dec("1100"), open[:1])
		require.NoError(t, err)
		assert.False(t, d.Auto)
	})

	t.Run("no open periods", func(t *testing.T) {
		_, err := allocation.Match(dec("1"), nil)
		assert.ErrorIs(t, err, domain.ErrNotEnoughPeriods)
	})

	t.Run("partly paid period matches what is still owed", func(t *testing.T) {
		open := []*domain.SchedulePeriod{period(1, "500", "50", "0"), period(2, "500", "50", "0")}
		_, err := allocation.Waterfall(dec("100"), open, time.Now(), 3)
		require.NoError(t, err)

		d, err := allocation.Match(dec("550"), open)
		require.NoError(t, err)
		assert.False(t, d.Auto)
		assertDec(t, "450", d.FirstAmount)
		assertDec(t, "1000", d.FirstTwoAmount)

		d, err = allocation.Match(dec("450"), open)
		require.NoError(t, err)
		require.True(t, d.Auto)
		require.Equal(t, 1, d.Periods)

		result, err := allocation.SettleWhole(open[:d.Periods], time.Now(), 3)
		require.NoError(t, err)
		total, err := result.Total()
		require.NoError(t, err)
		assertDec(t, "450", total)
		assertDec(t, "550", open[0].PaidAmount)
	})
}

func TestSplitManual(t *testing.T) {
	at := time.Now()

	t.Run("exact split", func(t *testing.T) {
		open := []*domain.SchedulePeriod{
			period(1, "33", "10", "0"), period(2, "33", "10", "0"), period(3, "34", "10", "0"), period(4, "33", "10", "0"),
		}
		split := allocation.ManualSplit{
			PeriodCount:   3,
			TotalCapital:  dec("100"),
			TotalInterest: dec("30"),
			Fines:         dec("5"),
		}

		result, err := allocation.SplitManual(split, open, at, 9)
		require.NoError(t, err)
		require.Len(t, result.Entries, 3)

		capital := []string{"33", "33", "34"}
		for i, e := range result.Entries {
			assertDec(t, capital[i], e.Capital)
			assertDec(t, "10", e.Interest)
		}
		assertDec(t, "0", result.Entries[0].Fines)
		assertDec(t, "5", result.Entries[2].Fines)

		total, err := result.Total()
		require.NoError(t, err)
		assertDec(t, "135", total)

		assert.Equal(t, domain.PeriodStatusPaid, open[2].Status)
		assert.Equal(t, domain.PeriodStatusActive, open[3].Status)
	})

	t.Run("mismatch names the period", func(t *testing.T) {
		open := []*domain.SchedulePeriod{period(1, "33", "10", "0"), period(2, "40", "10", "0"), period(3, "27", "10", "0")}
		split := allocation.ManualSplit{PeriodCount: 3, TotalCapital: dec("100"), TotalInterest: dec("30"), Fines: decimal.Zero}

		_, err := allocation.SplitManual(split, open, at, 9)
		require.ErrorIs(t, err, domain.ErrManualSplitMismatch)

		var mismatch *domain.SplitMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, 2, mismatch.PeriodIndex)
		assertDec(t, "33", mismatch.Expected)
		assertDec(t, "40", mismatch.Actual)
		assertDec(t, "0", open[0].PaidAmount)
	})

	t.Run("partly paid period owes less than its share", func(t *testing.T) {
		open := []*domain.SchedulePeriod{period(1, "50", "10", "0"), period(2, "50", "10", "0")}
		_, err := allocation.Waterfall(dec("30"), open, at, 9)
		require.NoError(t, err)
		split := allocation.ManualSplit{PeriodCount: 2, TotalCapital: dec("100"), TotalInterest: dec("20"), Fines: decimal.Zero}

		_, err = allocation.SplitManual(split, open, at, 9)
		var mismatch *domain.SplitMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 1, mismatch.PeriodIndex)
		assertDec(t, "50", mismatch.Expected)
		assertDec(t, "30", mismatch.Actual)
		assertDec(t, "20", open[0].PaidCapital)
	})

	t.Run("last share above what is owed", func(t *testing.T) {
		open := []*domain.SchedulePeriod{period(1, "50", "10", "0"), period(2, "50", "10", "0")}
		open[1].PaidCapital = dec("20")
		open[1].PaidAmount = dec("20")
		split := allocation.ManualSplit{PeriodCount: 2, TotalCapital: dec("100"), TotalInterest: dec("20"), Fines: decimal.Zero}

		_, err := allocation.SplitManual(split, open, at, 9)
		var mismatch *domain.SplitMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 2, mismatch.PeriodIndex)
		assertDec(t, "50", mismatch.Expected)
		assertDec(t, "30", mismatch.Actual)
	})

	t.Run("interest share above what is owed", func(t *testing.T) {
		open := []*domain.SchedulePeriod{period(1, "50", "10", "0")}
		open[0].PaidInterest = dec("4")
		open[0].PaidAmount = dec("4")
		split := allocation.ManualSplit{PeriodCount: 1, TotalCapital: dec("50"), TotalInterest: dec("10"), Fines: decimal.Zero}

		_, err := allocation.SplitManual(split, open, at, 9)
		assert.ErrorIs(t, err, domain.ErrManualSplitMismatch)
		assertDec(t, "4", open[0].PaidAmount)
	})

	t.Run("not enough periods", func(t *testing.T) {
		open := []*domain.SchedulePeriod{period(1, "50", "10", "0")}
		split := allocation.ManualSplit{PeriodCount: 2, TotalCapital: dec("100"), TotalInterest: dec("20"), Fines: decimal.Zero}

		_, err := allocation.SplitManual(split, open, at, 9)
		assert.ErrorIs(t, err, domain.ErrNotEnoughPeriods)
	})
}

func TestOutstanding(t *testing.T) {
	p1, p2, p3 := period(1, "100", "20", "10"), period(2, "100", "20", "0"), period(3, "50", "5", "0")
	p1.Status = domain.PeriodStatusPaid
	p2.PaidAmount = dec("20.5")

	total, err := allocation.Outstanding([]*domain.SchedulePeriod{p1, p2, p3})
	require.NoError(t, err)
	assertDec(t, "154.5", total)
}
