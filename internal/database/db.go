package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
)

type Options struct {
	DSN             string
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	db, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, xerrors.New(err)
	}

	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, xerrors.New(err)
	}

	return db, nil
}
