package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/collectdesk/internal/adapter/storage"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository implements the core storage, identity and credential ports on Postgres.
type Repository struct {
	db *storage.DB
}

var (
	_ port.Repository       = (*Repository)(nil)
	_ port.IdentityProvider = (*Repository)(nil)
	_ port.CredentialStore  = (*Repository)(nil)
)

func NewRepository(db *storage.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("db storage is nil")
	}
	return &Repository{db: db}, nil
}

// querier is satisfied by the pool and by a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repository) exec(ctx context.Context, q querier, statement sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return q.Exec(ctx, sql, args...)
}

func (r *Repository) queryRow(ctx context.Context, q querier, statement sq.Sqlizer) (pgx.Row, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	return q.QueryRow(ctx, sql, args...), nil
}

func (r *Repository) query(ctx context.Context, q querier, statement sq.Sqlizer) (pgx.Rows, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}
	return q.Query(ctx, sql, args...)
}

// mapError translates driver errors into domain errors. notFound replaces pgx.ErrNoRows.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return domain.ErrConflictingData
		case pgerrcode.CheckViolation:
			if pgErr.ConstraintName == "payees_limit_range" {
				return domain.ErrInsufficientQuota
			}
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrBadRequest, pgErr.Detail)
		}
	}
	return err
}

