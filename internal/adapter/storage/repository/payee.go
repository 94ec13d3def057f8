package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

var payeeColumns = []string{"id", "admin_id", "name", "address", "total_limit", "remaining_limit", "disabled"}

func scanPayee(row pgx.Row) (*domain.Payee, error) {
	p := domain.Payee{}
	err := row.Scan(
		&p.ID,
		&p.AdminID,
		&p.Name,
		&p.Address,
		&p.TotalLimit,
		&p.RemainingLimit,
		&p.Disabled,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ReadCustomer(ctx context.Context, customerID uint64) (*domain.Customer, error) {
	statement := r.db.QueryBuilder.
		Select("id", "name", "address").
		From("customers").
		Where(sq.Eq{"id": customerID})

	row, err := r.queryRow(ctx, r.db.Pool, statement)
	if err != nil {
		return nil, err
	}

	customer := domain.Customer{}
	err = row.Scan(&customer.ID, &customer.Name, &customer.Address)
	if err != nil {
		return nil, mapError(err, domain.ErrDataNotFound)
	}
	return &customer, nil
}

func (r *Repository) ReadPayee(ctx context.Context, payeeID uint64) (*domain.Payee, error) {
	return r.readPayee(ctx, r.db.Pool, payeeID, false)
}

func (r *Repository) readPayee(ctx context.Context, q querier, payeeID uint64, lock bool) (*domain.Payee, error) {
	statement := r.db.QueryBuilder.
		Select(payeeColumns...).
		From("payees").
		Where(sq.Eq{"id": payeeID})
	if lock {
		statement = statement.Suffix("FOR UPDATE")
	}

	row, err := r.queryRow(ctx, q, statement)
	if err != nil {
		return nil, err
	}
	payee, err := scanPayee(row)
	if err != nil {
		return nil, mapError(err, domain.ErrPayeeNotFound)
	}
	return payee, nil
}

func (r *Repository) writePayeeLimit(ctx context.Context, q querier, p *domain.Payee) error {
	statement := r.db.QueryBuilder.Update("payees").
		Set("remaining_limit", p.RemainingLimit).
		Where(sq.Eq{"id": p.ID})

	tag, err := r.exec(ctx, q, statement)
	if err != nil {
		return mapError(err, domain.ErrPayeeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPayeeNotFound
	}
	return nil
}

func (r *Repository) ListEnabledPayees(ctx context.Context) ([]*domain.Payee, error) {
	statement := r.db.QueryBuilder.
		Select(payeeColumns...).
		From("payees").
		Where(sq.Eq{"disabled": false}).
		OrderBy("id")

	rows, err := r.query(ctx, r.db.Pool, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Payee, 0)
	for rows.Next() {
		p, err := scanPayee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ListPayeesServedCustomer returns payees credited with a settled payment of the customer.
func (r *Repository) ListPayeesServedCustomer(ctx context.Context, customerID uint64) ([]uint64, error) {
	statement := r.db.QueryBuilder.
		Select("DISTINCT actual_collector_id").
		From("repayment_records").
		Where(sq.Eq{"customer_id": customerID}).
		Where(sq.NotEq{"actual_collector_id": nil})

	rows, err := r.query(ctx, r.db.Pool, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) ListActiveQRCredentials(ctx context.Context, payeeID uint64, method domain.PaymentMethod) ([]*domain.Credential, error) {
	statement := r.db.QueryBuilder.
		Select("id", "payee_id", "method", "qr_url", "active").
		From("payee_credentials").
		Where(sq.Eq{"payee_id": payeeID, "method": method, "active": true}).
		OrderBy("id")

	rows, err := r.query(ctx, r.db.Pool, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Credential, 0)
	for rows.Next() {
		c := domain.Credential{}
		if err := rows.Scan(&c.ID, &c.PayeeID, &c.Method, &c.QRURL, &c.Active); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
