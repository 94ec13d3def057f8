package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/ledger"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/govalues/decimal"
	"github.com/jackc/pgx/v5"
)

var loanColumns = []string{
	"id", "customer_id", "total_periods", "received_amount", "paid_capital",
	"paid_interest", "total_fines", "repaid_periods", "status", "settled_at",
}

var periodColumns = []string{
	"id", "loan_id", "period", "due_start", "due_end", "due_amount", "capital", "interest", "fines",
	"paid_capital", "paid_interest", "paid_fines", "paid_amount", "status", "settled_at", "operator_id",
}

// payeeBook is the payee side of a settlement with the state needed to
// decide what has to be written back.
type payeeBook struct {
	rankingExists bool
	dailyExists   bool
	remainder     decimal.Decimal
	dailyAmount   decimal.Decimal
}

func (r *Repository) SettleOrder(ctx context.Context, orderID string, at time.Time, settleFn port.SettleFn) (*domain.Settlement, error) {
	var st *domain.Settlement
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		order, err := r.readOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		st, err = r.settle(ctx, tx, order, order.LoanID, at, settleFn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *Repository) SettleLoan(ctx context.Context, loanID uint64, at time.Time, settleFn port.SettleFn) (*domain.Settlement, error) {
	var st *domain.Settlement
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		st, err = r.settle(ctx, tx, nil, loanID, at, settleFn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *Repository) settle(ctx context.Context, tx pgx.Tx, order *domain.Order, loanID uint64,
	at time.Time, settleFn port.SettleFn) (*domain.Settlement, error) {
	loan, err := r.readLoan(ctx, tx, loanID, true)
	if err != nil {
		return nil, err
	}
	periods, err := r.readPeriods(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}

	st := &domain.Settlement{At: at, Order: order, Loan: loan, Periods: periods}

	var book *payeeBook
	if order != nil && order.PayeeID != nil {
		book, err = r.loadPayeeBook(ctx, tx, st, *order.PayeeID)
		if err != nil {
			return nil, err
		}
	}

	if err := settleFn(st); err != nil {
		return nil, err
	}

	if st.Order != nil {
		if err := r.writeOrder(ctx, tx, st.Order); err != nil {
			return nil, err
		}
	}
	if err := r.writeLoan(ctx, tx, st.Loan); err != nil {
		return nil, err
	}
	for _, p := range st.Periods {
		if err := r.writePeriod(ctx, tx, p); err != nil {
			return nil, err
		}
	}
	if err := r.insertRecords(ctx, tx, st.Records); err != nil {
		return nil, err
	}
	if book != nil {
		if err := r.writePayeeBook(ctx, tx, st, book); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (r *Repository) ReadLoan(ctx context.Context, loanID uint64) (*domain.LoanAccount, error) {
	return r.readLoan(ctx, r.db.Pool, loanID, false)
}

func (r *Repository) readLoan(ctx context.Context, q querier, loanID uint64, lock bool) (*domain.LoanAccount, error) {
	statement := r.db.QueryBuilder.
		Select(loanColumns...).
		From("loans").
		Where(sq.Eq{"id": loanID})
	if lock {
		statement = statement.Suffix("FOR UPDATE")
	}

	row, err := r.queryRow(ctx, q, statement)
	if err != nil {
		return nil, err
	}

	l := domain.LoanAccount{}
	err = row.Scan(
		&l.ID,
		&l.CustomerID,
		&l.TotalPeriods,
		&l.ReceivedAmount,
		&l.PaidCapital,
		&l.PaidInterest,
		&l.TotalFines,
		&l.RepaidPeriods,
		&l.Status,
		&l.SettledAt,
	)
	if err != nil {
		return nil, mapError(err, domain.ErrLoanNotFound)
	}
	return &l, nil
}

func (r *Repository) readPeriods(ctx context.Context, q querier, loanID uint64) ([]*domain.SchedulePeriod, error) {
	statement := r.db.QueryBuilder.
		Select(periodColumns...).
		From("repayment_schedules").
		Where(sq.Eq{"loan_id": loanID}).
		OrderBy("due_start", "period").
		Suffix("FOR UPDATE")

	rows, err := r.query(ctx, q, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.SchedulePeriod, 0)
	for rows.Next() {
		p := domain.SchedulePeriod{}
		err := rows.Scan(
			&p.ID,
			&p.LoanID,
			&p.Index,
			&p.DueStart,
			&p.DueEnd,
			&p.DueAmount,
			&p.Capital,
			&p.Interest,
			&p.Fines,
			&p.PaidCapital,
			&p.PaidInterest,
			&p.PaidFines,
			&p.PaidAmount,
			&p.Status,
			&p.SettledAt,
			&p.OperatorID,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) writeLoan(ctx context.Context, q querier, l *domain.LoanAccount) error {
	statement := r.db.QueryBuilder.Update("loans").
		Set("received_amount", l.ReceivedAmount).
		Set("paid_capital", l.PaidCapital).
		Set("paid_interest", l.PaidInterest).
		Set("total_fines", l.TotalFines).
		Set("repaid_periods", l.RepaidPeriods).
		Set("status", l.Status).
		Set("settled_at", l.SettledAt).
		Where(sq.Eq{"id": l.ID})

	_, err := r.exec(ctx, q, statement)
	return mapError(err, domain.ErrLoanNotFound)
}

func (r *Repository) writePeriod(ctx context.Context, q querier, p *domain.SchedulePeriod) error {
	statement := r.db.QueryBuilder.Update("repayment_schedules").
		Set("fines", p.Fines).
		Set("paid_capital", p.PaidCapital).
		Set("paid_interest", p.PaidInterest).
		Set("paid_fines", p.PaidFines).
		Set("paid_amount", p.PaidAmount).
		Set("status", p.Status).
		Set("settled_at", p.SettledAt).
		Set("operator_id", p.OperatorID).
		Where(sq.Eq{"id": p.ID})

	_, err := r.exec(ctx, q, statement)
	return mapError(err, domain.ErrDataNotFound)
}

func (r *Repository) insertRecords(ctx context.Context, q querier, records []*domain.RepaymentRecord) error {
	if len(records) == 0 {
		return nil
	}

	statement := r.db.QueryBuilder.Insert("repayment_records").
		Columns("loan_id", "period_id", "order_id", "customer_id", "amount", "capital", "interest", "fines",
			"payment_method", "actual_collector_id", "operator_id", "created_at").
		Suffix("RETURNING id")
	for _, rec := range records {
		statement = statement.Values(
			rec.LoanID,
			rec.PeriodID,
			rec.OrderID,
			rec.CustomerID,
			rec.Amount,
			rec.Capital,
			rec.Interest,
			rec.Fines,
			rec.PaymentMethod,
			rec.ActualCollectorID,
			rec.OperatorID,
			rec.CreatedAt,
		)
	}

	rows, err := r.query(ctx, q, statement)
	if err != nil {
		return mapError(err, domain.ErrDataNotFound)
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&records[i].ID); err != nil {
			return err
		}
	}
	return mapError(rows.Err(), domain.ErrDataNotFound)
}

// loadPayeeBook locks the payee row, which serialises every settlement
// credited to the payee, and loads its ranking and today's statistics.
// A missing daily row starts from the last known cumulative amount.
func (r *Repository) loadPayeeBook(ctx context.Context, tx pgx.Tx, st *domain.Settlement, payeeID uint64) (*payeeBook, error) {
	if _, err := r.readPayee(ctx, tx, payeeID, true); err != nil {
		return nil, err
	}
	book := &payeeBook{}

	st.Ranking = &domain.PayeeRanking{PayeeID: payeeID, Remainder: decimal.Zero, UpdatedAt: st.At}
	row, err := r.queryRow(ctx, tx, r.db.QueryBuilder.
		Select("remainder", "updated_at").
		From("payee_rankings").
		Where(sq.Eq{"payee_id": payeeID}))
	if err != nil {
		return nil, err
	}
	err = row.Scan(&st.Ranking.Remainder, &st.Ranking.UpdatedAt)
	switch {
	case err == nil:
		book.rankingExists = true
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}
	book.remainder = st.Ranking.Remainder

	day := ledger.Midnight(st.At)
	st.Daily = &domain.DailyStatistics{PayeeID: payeeID, Date: day, Amount: decimal.Zero, Cumulative: decimal.Zero}
	row, err = r.queryRow(ctx, tx, r.db.QueryBuilder.
		Select("amount", "cumulative").
		From("payee_daily_statistics").
		Where(sq.Eq{"payee_id": payeeID, "stat_date": day}))
	if err != nil {
		return nil, err
	}
	err = row.Scan(&st.Daily.Amount, &st.Daily.Cumulative)
	switch {
	case err == nil:
		book.dailyExists = true
	case errors.Is(err, pgx.ErrNoRows):
		row, err = r.queryRow(ctx, tx, r.db.QueryBuilder.
			Select("cumulative").
			From("payee_daily_statistics").
			Where(sq.Eq{"payee_id": payeeID}).
			Where(sq.Lt{"stat_date": day}).
			OrderBy("stat_date DESC").
			Limit(1))
		if err != nil {
			return nil, err
		}
		if err := row.Scan(&st.Daily.Cumulative); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	default:
		return nil, err
	}
	book.dailyAmount = st.Daily.Amount

	return book, nil
}

func (r *Repository) writePayeeBook(ctx context.Context, q querier, st *domain.Settlement, book *payeeBook) error {
	if book.rankingExists || !st.Ranking.Remainder.Equal(book.remainder) {
		statement := r.db.QueryBuilder.Insert("payee_rankings").
			Columns("payee_id", "remainder", "updated_at").
			Values(st.Ranking.PayeeID, st.Ranking.Remainder, st.Ranking.UpdatedAt).
			Suffix("ON CONFLICT (payee_id) DO UPDATE SET remainder = EXCLUDED.remainder, updated_at = EXCLUDED.updated_at")
		if _, err := r.exec(ctx, q, statement); err != nil {
			return mapError(err, domain.ErrDataNotFound)
		}
	}

	if book.dailyExists || !st.Daily.Amount.Equal(book.dailyAmount) {
		statement := r.db.QueryBuilder.Insert("payee_daily_statistics").
			Columns("payee_id", "stat_date", "amount", "cumulative").
			Values(st.Daily.PayeeID, st.Daily.Date, st.Daily.Amount, st.Daily.Cumulative).
			Suffix("ON CONFLICT (payee_id, stat_date) DO UPDATE SET amount = EXCLUDED.amount, cumulative = EXCLUDED.cumulative")
		if _, err := r.exec(ctx, q, statement); err != nil {
			return mapError(err, domain.ErrDataNotFound)
		}
	}
	return nil
}
