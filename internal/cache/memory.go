package cache

import (
	"context"
	"time"

	"github.com/siahsang/postfeed/internal/utils/collectionutils"
)

type entry struct {
	value    []byte
	storedAt time.Time
}

// Memory is a process-local key/timestamp/value store. Expired entries are
// dropped lazily on read.
type Memory struct {
	ttl     time.Duration
	now     func() time.Time
	entries *collectionutils.SafeMap[string, entry]
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: collectionutils.New[string, entry](),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(e.storedAt) >= m.ttl {
		m.entries.Delete(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries.Store(key, entry{value: stored, storedAt: m.now()})
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.entries.Clear()
	return nil
}
