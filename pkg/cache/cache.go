// Package cache is a process-local TTL cache.
package cache

import (
	"sync"
	"time"
)

const sweepInterval = time.Minute

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache holds values until their TTL passes. Expired entries are swept on
// write, at most once per sweepInterval, so there is no background goroutine.
type Cache[V any] struct {
	mu        sync.RWMutex
	items     map[string]item[V]
	now       func() time.Time
	lastSweep time.Time
}

type Option func(*config)

type config struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

func New[V any](opts ...Option) *Cache[V] {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache[V]{
		items: make(map[string]item[V]),
		now:   cfg.now,
	}
}

// Set stores value under key for ttl. A non-positive ttl deletes the key.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= sweepInterval {
		c.sweep(now)
	}
	if ttl <= 0 {
		delete(c.items, key)
		return
	}
	c.items[key] = item[V]{value: value, expiresAt: now.Add(ttl)}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || !c.now().Before(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len counts entries, including expired ones not yet swept.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[V]) sweep(now time.Time) {
	for k, it := range c.items {
		if !now.Before(it.expiresAt) {
			delete(c.items, k)
		}
	}
	c.lastSweep = now
}
