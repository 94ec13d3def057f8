package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
)

func (r *Repository) GetRole(ctx context.Context, adminID uint64) (domain.Role, error) {
	statement := r.db.QueryBuilder.
		Select("role").
		From("admins").
		Where(sq.Eq{"id": adminID})

	row, err := r.queryRow(ctx, r.db.Pool, statement)
	if err != nil {
		return "", err
	}

	var role domain.Role
	if err := row.Scan(&role); err != nil {
		return "", mapError(err, domain.ErrDataNotFound)
	}
	return role, nil
}

// GetPayeeIDForAdmin reports ErrDataNotFound for admins without a payee.
func (r *Repository) GetPayeeIDForAdmin(ctx context.Context, adminID uint64) (uint64, error) {
	statement := r.db.QueryBuilder.
		Select("payee_id").
		From("admins").
		Where(sq.Eq{"id": adminID})

	row, err := r.queryRow(ctx, r.db.Pool, statement)
	if err != nil {
		return 0, err
	}

	var payeeID *uint64
	if err := row.Scan(&payeeID); err != nil {
		return 0, mapError(err, domain.ErrDataNotFound)
	}
	if payeeID == nil {
		return 0, domain.ErrDataNotFound
	}
	return *payeeID, nil
}
