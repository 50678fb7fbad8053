package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

var errNoRowsAffected = errors.New("no rows affected")

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// uniqueViolation reports the violated constraint when err is a unique-key failure.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", false
	}
	if pqErr.Code != uniqueViolationCode {
		return "", false
	}
	return pqErr.Constraint, true
}

// execOne runs a statement that must touch at least one row.
func execOne(ctx context.Context, q sqlx.ExecerContext, op, query string, args []any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected %s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, errNoRowsAffected)
	}
	return nil
}

// execCount runs a statement and returns the affected row count.
func execCount(ctx context.Context, q sqlx.ExecerContext, op, query string, args []any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected %s: %w", op, err)
	}
	return affected, nil
}
