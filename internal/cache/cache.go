package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used when callers pass a zero TTL.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	value     T
	timestamp time.Time
	expiresAt time.Time
}

// Cache is an in-memory TTL cache for API responses. Expired entries are
// evicted lazily on the next access; there is no capacity bound because the
// key set is a bounded set of catalog query shapes.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	now     func() time.Time // overridable for tests
}

func New[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Set stores value under key with an absolute expiry of now+ttl.
// A zero or negative ttl falls back to DefaultTTL.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := c.now()
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, timestamp: now, expiresAt: now.Add(ttl)}
	c.mu.Unlock()
}

// Get returns the cached value if present and not expired. An expired entry
// is deleted on the way out.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

func (c *Cache[T]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Cleanup removes every expired entry. Callers may run this periodically;
// nothing depends on it since Get evicts lazily.
func (c *Cache[T]) Cleanup() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Fetch returns the cached value for key, or invokes producer and caches its
// result. A producer failure propagates uncached. Two racing callers for the
// same missing key may both invoke producer; duplicate upstream calls are an
// accepted inefficiency because catalog reads are idempotent.
func Fetch[T any](c *Cache[T], key string, producer func() (T, error), ttl time.Duration) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := producer()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}
