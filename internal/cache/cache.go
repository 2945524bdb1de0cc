// Package cache holds rendered listing pages for a fixed time-to-live.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is how long a rendered global feed page stays fresh.
const DefaultTTL = 20 * time.Second

const indexPageKey = "index_page:%s" // <raw page parameter>

func IndexPageKey(page string) string {
	return fmt.Sprintf(indexPageKey, page)
}

// Cache stores opaque rendered bytes. Get reports a miss with ok == false.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}
