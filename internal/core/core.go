package core

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/store"
)

var (
	ErrNotFound     = xerrors.Message("Not found")
	ErrForbidden    = xerrors.Message("Forbidden")
	ErrSelfFollow   = xerrors.Message("Users cannot follow themselves")
	ErrInvalidGroup = xerrors.Message("Unknown group")
)

// FollowOrder selects how the follow feed is assembled.
type FollowOrder string

const (
	// FollowOrderConcat lists each followed author's posts (newest first) one
	// author after another, in the order the follows were created.
	FollowOrderConcat FollowOrder = "concat"
	// FollowOrderNewest merges every followed author's posts into one newest-first sequence.
	FollowOrderNewest FollowOrder = "newest"
)

func ParseFollowOrder(s string) (FollowOrder, error) {
	switch FollowOrder(s) {
	case FollowOrderConcat, FollowOrderNewest:
		return FollowOrder(s), nil
	case "":
		return FollowOrderConcat, nil
	default:
		return "", xerrors.Newf("unknown follow feed order %q", s)
	}
}

type Core struct {
	log         *slog.Logger
	store       store.Store
	followOrder FollowOrder
	now         func() time.Time
}

func NewCore(st store.Store, log *slog.Logger, followOrder FollowOrder) *Core {
	return &Core{
		log:         log,
		store:       st,
		followOrder: followOrder,
		now:         time.Now,
	}
}

// notFound turns a missing store record into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, store.ErrNoRecord) {
		return xerrors.New(ErrNotFound)
	}
	return err
}
