package cache

import (
	"sync"
	"time"
)

// entry holds a cached value and the instant it stops being served.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means the entry never expires
}

// SimpleCache is a map-backed cache used to keep hot rows in process.
// Expired entries are treated as misses and dropped on the next write to the same key.
type SimpleCache[K comparable, V any] struct {
	mu    *sync.RWMutex // nil when the cache is used from a single goroutine
	items map[K]entry[V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe guards every operation with a RWMutex.
	ConcurrencySafe bool
}

func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	c := &SimpleCache[K, V]{items: make(map[K]entry[V])}
	if opts.ConcurrencySafe {
		c.mu = &sync.RWMutex{}
	}
	return c
}

func (c *SimpleCache[K, V]) rlock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.RLock()
	return c.mu.RUnlock
}

func (c *SimpleCache[K, V]) wlock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// now is swapped out by tests.
var now = time.Now

// Get returns the value and whether it was present and still fresh.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	defer c.rlock()()

	var zero V
	e, ok := c.items[key]
	if !ok || e.expired(now()) {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A ttl <= 0 keeps the entry until it is deleted.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	defer c.wlock()()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

func (c *SimpleCache[K, V]) Delete(key K) {
	defer c.wlock()()
	delete(c.items, key)
}

func (e entry[V]) expired(ts time.Time) bool {
	return !e.expiresAt.IsZero() && ts.After(e.expiresAt)
}
