package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/jackc/pgx/v5"
)

var orderColumns = []string{
	"id", "customer_id", "loan_id", "amount", "periods", "payment_method", "remark",
	"status", "review_status", "payment_feedback", "payee_id", "actual_paid",
	"needs_manual", "manual_status", "created_at", "expires_at", "updated_at",
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := domain.Order{}
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.LoanID,
		&o.Amount,
		&o.Periods,
		&o.PaymentMethod,
		&o.Remark,
		&o.Status,
		&o.ReviewStatus,
		&o.PaymentFeedback,
		&o.PayeeID,
		&o.ActualPaid,
		&o.NeedsManual,
		&o.ManualStatus,
		&o.CreatedAt,
		&o.ExpiresAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	statement := r.db.QueryBuilder.Insert("orders").
		Columns(orderColumns...).
		Values(
			order.ID,
			order.CustomerID,
			order.LoanID,
			order.Amount,
			order.Periods,
			order.PaymentMethod,
			order.Remark,
			order.Status,
			order.ReviewStatus,
			order.PaymentFeedback,
			order.PayeeID,
			order.ActualPaid,
			order.NeedsManual,
			order.ManualStatus,
			order.CreatedAt,
			order.ExpiresAt,
			order.UpdatedAt,
		)

	if _, err := r.exec(ctx, r.db.Pool, statement); err != nil {
		return nil, mapError(err, domain.ErrDataNotFound)
	}
	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.readOrder(ctx, r.db.Pool, orderID, false)
}

func (r *Repository) readOrder(ctx context.Context, q querier, orderID string, lock bool) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID})
	if lock {
		statement = statement.Suffix("FOR UPDATE")
	}

	row, err := r.queryRow(ctx, q, statement)
	if err != nil {
		return nil, err
	}
	order, err := scanOrder(row)
	if err != nil {
		return nil, mapError(err, domain.ErrOrderNotFound)
	}
	return order, nil
}

func (r *Repository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if filter.PayeeID != nil {
		if filter.OrPending {
			statement = statement.Where(sq.Or{
				sq.Eq{"payee_id": *filter.PayeeID},
				sq.Eq{"status": domain.OrderStatusPending},
			})
		} else {
			statement = statement.Where(sq.Eq{"payee_id": *filter.PayeeID})
		}
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		statement = statement.Where(sq.Eq{"status": statuses})
	}

	rows, err := r.query(ctx, r.db.Pool, statement)
	if err != nil {
		return nil, mapError(err, domain.ErrDataNotFound)
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) writeOrder(ctx context.Context, q querier, o *domain.Order) error {
	statement := r.db.QueryBuilder.Update("orders").
		Set("status", o.Status).
		Set("review_status", o.ReviewStatus).
		Set("payment_feedback", o.PaymentFeedback).
		Set("payee_id", o.PayeeID).
		Set("actual_paid", o.ActualPaid).
		Set("needs_manual", o.NeedsManual).
		Set("manual_status", o.ManualStatus).
		Set("expires_at", o.ExpiresAt).
		Set("updated_at", o.UpdatedAt).
		Where(sq.Eq{"id": o.ID})

	tag, err := r.exec(ctx, q, statement)
	if err != nil {
		return mapError(err, domain.ErrOrderNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoUpdatedData
	}
	return nil
}

func (r *Repository) UpdateOrder(ctx context.Context, orderID string, updateFn port.UpdateOrderFn) (*domain.Order, error) {
	var order *domain.Order
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if err := updateFn(order); err != nil {
			return err
		}
		return r.writeOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ClaimOrder locks the order before the payee so concurrent claims of one
// order queue on the order row.
func (r *Repository) ClaimOrder(ctx context.Context, orderID string, payeeID uint64, claimFn port.ClaimFn) (*domain.Order, *domain.Payee, error) {
	var (
		order *domain.Order
		payee *domain.Payee
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		payee, err = r.readPayee(ctx, tx, payeeID, true)
		if err != nil {
			return err
		}

		if err := claimFn(order, payee); err != nil {
			return err
		}

		if err := r.writeOrder(ctx, tx, order); err != nil {
			return err
		}
		return r.writePayeeLimit(ctx, tx, payee)
	})
	if err != nil {
		return nil, nil, err
	}
	return order, payee, nil
}

func (r *Repository) DeleteOrder(ctx context.Context, orderID string, deleteFn port.DeleteFn) (*domain.Order, error) {
	var order *domain.Order
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrder(ctx, tx, orderID, true)
		if err != nil {
			return err
		}

		var payee *domain.Payee
		if order.PayeeID != nil {
			payee, err = r.readPayee(ctx, tx, *order.PayeeID, true)
			if err != nil {
				return err
			}
		}

		if err := deleteFn(order, payee); err != nil {
			return err
		}

		if payee != nil {
			if err := r.writePayeeLimit(ctx, tx, payee); err != nil {
				return err
			}
		}

		_, err = r.exec(ctx, tx, r.db.QueryBuilder.Delete("orders").Where(sq.Eq{"id": order.ID}))
		if err != nil {
			return fmt.Errorf("delete order %s: %w", order.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
