// Package cache implements the in-memory TTL cache used in front of
// remote lookups. Keys are normalized (lowercased, trimmed) so that
// case and whitespace variants of the same query share one entry.
// Expiry is lazy: stale entries are simply never returned and are
// overwritten by the next write.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value      any
	insertedAt time.Time
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is a TTL-bounded map shared across concurrent requests. Producers
// passed to GetOrFill must be idempotent: two concurrent misses on the same
// key may both invoke their producer, and the last write wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	hits    int64
	misses  int64

	// now is a hook for tests; defaults to time.Now.
	now func() time.Time
}

// New creates a Cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NormalizeKey maps case and whitespace variants of a query to one cache key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get returns the live value for key, if any.
func (c *Cache) Get(key string) (any, bool) {
	k := NormalizeKey(key)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.insertedAt) >= c.ttl {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return e.value, true
}

// Set stores value under the normalized key with the current timestamp.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[NormalizeKey(key)] = entry{value: value, insertedAt: c.now()}
}

// Delete removes the entry for key, if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, NormalizeKey(key))
}

// GetOrFill returns the live cached value for key, or invokes producer,
// stores its result, and returns it. A producer error is returned without
// touching the cache.
func (c *Cache) GetOrFill(key string, producer func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := producer()
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}

// Stats returns a snapshot of the cache counters. Entries counts stored
// entries including ones that are stale but not yet overwritten.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries: int64(len(c.entries)),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
