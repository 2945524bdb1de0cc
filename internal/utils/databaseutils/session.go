package databaseutils

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mdobak/go-xerrors"
)

type txKey struct {
}

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Session runs units of work against a database pool.
type Session interface {
	// DoTransactionally executes fn within a new transaction carried by txCtx.
	// The transaction is committed if fn returns nil, otherwise it's rolled back.
	// When ctx already carries a transaction fn joins it.
	DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error

	// Executor returns the transaction carried by ctx, or the pool.
	Executor(ctx context.Context) SQLExecutor
}

type sqlSession struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSession(db *sql.DB, log *slog.Logger) Session {
	return &sqlSession{
		db:  db,
		log: log,
	}
}

func (s *sqlSession) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Newf("session: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				s.log.Error("session: failed to rollback transaction",
					slog.String("error", rollbackErr.Error()),
					slog.String("cause", err.Error()))
			}
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = xerrors.Newf("session: failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}

func (s *sqlSession) Executor(ctx context.Context) SQLExecutor {
	return GetSQLExecutor(ctx, s.db)
}

// GetSQLExecutor returns the *sql.Tx stored in ctx, falling back to db.
func GetSQLExecutor(ctx context.Context, fallbackDB *sql.DB) SQLExecutor {
	dbExecutor := ctx.Value(txKey{})

	if dbExecutor == nil {
		return fallbackDB
	}

	tx, ok := dbExecutor.(*sql.Tx)
	if !ok {
		panic(fmt.Sprintf("session: value in context for txKey is not a *sql.Tx, but %T", dbExecutor))
	}
	return tx
}
