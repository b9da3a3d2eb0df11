// Package repositories contains the PostgreSQL implementations of the
// domain repository interfaces.
package repositories

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adsforge/adsforge/pkg/errors"
)

// pgUniqueViolation is the SQLSTATE for unique-constraint violations.
const pgUniqueViolation = "23505"

// queryExecutor abstracts *pgxpool.Pool and pgx.Tx so every repository
// method runs unchanged inside or outside a transaction.
type queryExecutor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// scanner abstracts pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// defaultPageSize caps unbounded list queries.
const defaultPageSize = 50

// pageArgs normalizes pagination inputs.
func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// itoa builds positional placeholder indexes in dynamic WHERE clauses.
func itoa(n int) string {
	return strconv.Itoa(n)
}

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isNoRows reports whether err means the query matched nothing.
func isNoRows(err error) bool {
	return stderrors.Is(err, pgx.ErrNoRows)
}

// mapScanError converts pgx errors into AppErrors for single-row lookups.
func mapScanError(err error, notFound *errors.AppError, context string) error {
	if isNoRows(err) {
		return notFound
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, context)
}
