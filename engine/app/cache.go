package engine

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value   V
	expires time.Time
}

// TimedCache is a TTL map shared by the Twitch client for everything from
// GQL aggregates down to variant proxy targets. The clock is a field so
// tests can drive expiry deterministically.
type TimedCache[V any] struct {
	now func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry[V]
}

func NewTimedCache[V any]() *TimedCache[V] {
	return &TimedCache[V]{
		now:   time.Now,
		items: make(map[string]cacheEntry[V]),
	}
}

func (c *TimedCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.expires) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *TimedCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = cacheEntry[V]{value: value, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *TimedCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
