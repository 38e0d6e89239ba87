package store

import (
	"context"
	"fmt"

	perr "coedit/internal/platform/errors"
)

// One maps exactly one row into T via scan. Zero rows yields ErrNotFound,
// more than one is an error
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := scan(&cursorRow{rows: rows})
	if err != nil {
		return zero, err
	}
	if rows.Next() {
		return zero, fmt.Errorf("expected 1 row, got more")
	}
	return item, rows.Err()
}

// Many maps every row into []T via scan; an empty result set is not an error
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(&cursorRow{rows: rows})
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// cursorRow presents the current Rows position as a single Row so scan
// callbacks only ever see the Row contract
type cursorRow struct{ rows Rows }

func (r *cursorRow) Scan(dest ...any) error { return r.rows.Scan(dest...) }
