// Package postgres implements the store interfaces on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the stores need. pgxmock.PgxPoolIface
// satisfies it as well.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// querier is implemented by both DB and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFn is a function executed within a database transaction.
type TxFn func(tx pgx.Tx) error

// WithTx runs fn inside a transaction, committing on success and rolling back
// when fn returns an error.
func WithTx(ctx context.Context, db DB, fn TxFn) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.GetLogger().Errorw("Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const (
	pgUniqueViolation           = "23505"
	pgForeignKeyViolation       = "23503"
	pgInvalidTextRepresentation = "22P02"
)

// mapError translates driver errors into store sentinels, keeping the original
// error in the chain. A malformed id cannot name an existing row, so it maps
// to ErrNotFound like a missing one.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrNotFound, pgErr.ConstraintName)
		case pgInvalidTextRepresentation:
			return fmt.Errorf("%w: %s", store.ErrNotFound, pgErr.Message)
		}
	}
	return err
}
