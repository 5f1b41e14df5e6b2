package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock returns the current time. Injectable so tests can control expiry.
type Clock func() time.Time

// Options configures a Cache instance.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	Clock      Clock
}

// MetricsHooks are optional callbacks fired on cache events.
type MetricsHooks struct {
	OnHit   func(key string)
	OnMiss  func(key string)
	OnStore func(key string)
	OnError func(key string)
}

type entry struct {
	value     interface{}
	expiresAt time.Time
	storedAt  time.Time
}

// Cache is an in-memory TTL cache with singleflight-deduplicated loads.
// Entries are replaced atomically as whole values; concurrent readers never
// observe a partial update.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*entry
	order []string
	opts  Options
	hooks MetricsHooks
	now   Clock
	sf    singleflight.Group
}

// Loader fetches a fresh value for a key on miss or expiry.
type Loader func(ctx context.Context, key string) (interface{}, error)

func New(opts Options, hooks MetricsHooks) *Cache {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Cache{
		items: make(map[string]*entry),
		order: make([]string, 0, 64),
		opts:  opts,
		hooks: hooks,
		now:   now,
	}
}

// Get returns the cached value for key, loading it through loader when the
// entry is missing or expired. Concurrent loads for the same key are
// collapsed into a single upstream call.
func (c *Cache) Get(ctx context.Context, key string, loader Loader) (interface{}, error) {
	now := c.now()
	c.mu.RLock()
	if e, ok := c.items[key]; ok && now.Before(e.expiresAt) {
		val := e.value
		c.mu.RUnlock()
		if c.hooks.OnHit != nil {
			c.hooks.OnHit(key)
		}
		return val, nil
	}
	c.mu.RUnlock()

	if c.hooks.OnMiss != nil {
		c.hooks.OnMiss(key)
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		val, err := loader(ctx, key)
		if err != nil {
			if c.hooks.OnError != nil {
				c.hooks.OnError(key)
			}
			return nil, err
		}
		c.Set(key, val, c.opts.TTL)
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Set stores a value with an explicit TTL.
func (c *Cache) Set(key string, val interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.opts.TTL
	}
	now := c.now()
	e := &entry{value: val, expiresAt: now.Add(ttl), storedAt: now}

	c.mu.Lock()
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = e
	c.evictIfNeeded()
	c.mu.Unlock()

	if c.hooks.OnStore != nil {
		c.hooks.OnStore(key)
	}
}

// Peek returns a cached value without triggering a load. Expired entries are
// still returned with ok=false so callers can use them as last-known-good.
func (c *Cache) Peek(key string) (interface{}, bool) {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if now.After(e.expiresAt) {
		return e.value, false
	}
	return e.value, true
}

// IsExpired reports whether the entry for key is absent or past its TTL.
func (c *Cache) IsExpired(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok {
		return true
	}
	return c.now().After(e.expiresAt)
}

// Delete removes a key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.removeFromOrder(key)
	c.mu.Unlock()
}

// Len returns the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// evictIfNeeded drops oldest entries over MaxEntries. Caller holds c.mu.
func (c *Cache) evictIfNeeded() {
	if c.opts.MaxEntries <= 0 || len(c.items) <= c.opts.MaxEntries {
		return
	}
	excess := len(c.items) - c.opts.MaxEntries
	for excess > 0 && len(c.order) > 0 {
		victim := c.order[0]
		c.order = c.order[1:]
		delete(c.items, victim)
		excess--
	}
}
