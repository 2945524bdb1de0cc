// Package postgres implements store.Store on PostgreSQL via lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/store"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
)

const uniqueViolation = "23505"

type Store struct {
	log         *slog.Logger
	session     databaseutils.Session
	sqlTemplate *databaseutils.SQLTemplate
}

var _ store.Store = (*Store)(nil)

func New(session databaseutils.Session, sqlTemplate *databaseutils.SQLTemplate, log *slog.Logger) *Store {
	return &Store{
		log:         log,
		session:     session,
		sqlTemplate: sqlTemplate,
	}
}

func (s *Store) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error {
	return s.session.DoTransactionally(ctx, fn)
}

// translate maps driver errors onto store sentinels.
func translate(err error, constraints map[string]error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return xerrors.New(store.ErrNoRecord)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if sentinel, ok := constraints[pqErr.Constraint]; ok {
			return xerrors.New(sentinel)
		}
	}

	return xerrors.New(err)
}
