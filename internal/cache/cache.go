package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a TTL read-cache for idempotent lookups. Keys are canonical
// serializations of the operation parameters, so identical parameters within
// the validity window return the identical result. Invalidation is external:
// callers hold the cache and decide when to flush.
type Cache[V any] struct {
	backend *ristretto.Cache[string, V]
	ttl     time.Duration
}

func New[V any](maxEntries int64, ttl time.Duration) (*Cache[V], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cache max entries must be positive")
	}

	backend, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Cache[V]{backend: backend, ttl: ttl}, nil
}

func (c *Cache[V]) Get(key string) (V, bool) {
	return c.backend.Get(key)
}

func (c *Cache[V]) Set(key string, value V) {
	c.backend.SetWithTTL(key, value, 1, c.ttl)
}

func (c *Cache[V]) Delete(key string) {
	c.backend.Del(key)
}

func (c *Cache[V]) Flush() {
	c.backend.Clear()
}

// Wait blocks until buffered writes have been applied. Needed before a Get
// that must observe a preceding Set.
func (c *Cache[V]) Wait() {
	c.backend.Wait()
}

// Key builds a canonical cache key. The unit separator keeps parameter
// boundaries unambiguous regardless of their content.
func Key(op string, parts ...string) string {
	return op + "\x1f" + strings.Join(parts, "\x1f")
}
