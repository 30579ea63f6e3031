package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finsafe/internal/cache"
)

// MemoryStore keeps serialized sessions in a bounded LRU cache. Sessions are
// lost on restart and evicted when the cache is full.
type MemoryStore struct {
	cache *cache.LRUCache[[]byte]
	now   func() time.Time
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.NewLRUCache[[]byte](maxEntries, ttl),
		now:   time.Now,
	}
}

// Cache exposes the underlying cache for cleanup registration and stats.
func (m *MemoryStore) Cache() *cache.LRUCache[[]byte] {
	return m.cache
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	data, ok := m.cache.Get(id)
	if !ok {
		observe(m.Name(), "load", ErrNotFound)
		return nil, ErrNotFound
	}
	s, err := decode(data, m.now())
	observe(m.Name(), "load", err)
	return s, err
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		observe(m.Name(), "save", err)
		return fmt.Errorf("encode session: %w", err)
	}
	m.cache.SetWithTTL(s.ID, data, s.ExpiresAt.Sub(m.now()))
	s.isNew = false
	observe(m.Name(), "save", nil)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.cache.Delete(id)
	observe(m.Name(), "delete", nil)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
