package databaseutils

import (
	"context"
	"database/sql"
	"time"
)

// SQLTemplate runs queries with a per-statement timeout against the executor
// selected by the session (the transaction in ctx or the pool).
type SQLTemplate struct {
	Session Session
	Timeout time.Duration
}

func NewSQLTemplate(session Session, timeout time.Duration) *SQLTemplate {
	return &SQLTemplate{
		Session: session,
		Timeout: timeout,
	}
}

func ExecuteQuery[T any](sqlTemplate *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlTemplate.Timeout)
	defer cancel()
	rows, err := sqlTemplate.Session.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		t, err := extractor(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ExecuteSingleQuery returns sql.ErrNoRows when the query yields nothing.
func ExecuteSingleQuery[T any](sqlTemplate *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) (T, error) {
	var zero T
	results, err := ExecuteQuery(sqlTemplate, ctx, query, extractor, args...)
	if err != nil {
		return zero, err
	}
	if len(results) == 0 {
		return zero, sql.ErrNoRows
	}
	return results[0], nil
}

func Exec(sqlTemplate *SQLTemplate, ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlTemplate.Timeout)
	defer cancel()
	result, err := sqlTemplate.Session.Executor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
