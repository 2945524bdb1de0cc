package cache

import (
	"context"
	"errors"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/redis/go-redis/v9"
)

// Redis keeps pages in a shared Redis so every server instance sees one slot per key.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedis(rdb *redis.Client, ttl time.Duration, prefix string) *Redis {
	return &Redis{
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, xerrors.New(err)
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return xerrors.New(err)
	}
	return nil
}

// Clear removes every key under the cache prefix.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return xerrors.New(err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return xerrors.New(err)
	}
	return nil
}
