// Package cache provides explicitly owned in-memory caches with a TTL and a
// size bound. Each cache is constructed once at startup and injected into
// whatever needs it.
package cache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Defaults for the verse and chapter caches.
const (
	DefaultVerseTTL     = 10 * time.Minute
	DefaultVerseEntries = 200
	DefaultChapterTTL   = 30 * time.Minute
)

// Cache is a TTL cache holding at most MaxEntries values. When full, the
// entry that has gone longest without being read or written is evicted.
type Cache[V any] struct {
	name       string
	ttl        time.Duration
	maxEntries int

	mu    sync.Mutex
	store *gocache.Cache
	order *list.List               // front is oldest
	elems map[string]*list.Element // key -> element in order
}

// New creates a cache. A maxEntries of zero or less means unbounded.
func New[V any](name string, ttl time.Duration, maxEntries int) *Cache[V] {
	return &Cache[V]{
		name:       name,
		ttl:        ttl,
		maxEntries: maxEntries,
		store:      gocache.New(ttl, 2*ttl),
		order:      list.New(),
		elems:      make(map[string]*list.Element),
	}
}

// TTL returns the lifetime of an entry.
func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// Get returns a live entry and marks it recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, found := c.store.Get(key)
	if !found {
		c.forget(key)
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		slog.Error("wrong type in cache", "cache", c.name, "key", key)
		c.store.Delete(key)
		c.forget(key)
		return zero, false
	}

	if e, ok := c.elems[key]; ok {
		c.order.MoveToBack(e)
	}
	return v, true
}

// Set stores value under key, evicting the oldest entries if the cache is
// full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.elems[key]; ok {
		c.order.MoveToBack(e)
	} else {
		for c.maxEntries > 0 && c.order.Len() >= c.maxEntries {
			oldest := c.order.Front()
			k := oldest.Value.(string)
			c.store.Delete(k)
			c.forget(k)
			slog.Debug("cache eviction", "cache", c.name, "key", k)
		}
		c.elems[key] = c.order.PushBack(key)
	}
	c.store.SetDefault(key, value)
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(key)
	c.forget(key)
}

// Len returns the number of tracked entries, including expired ones not
// yet collected.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Flush empties the cache.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
	c.order.Init()
	clear(c.elems)
}

// GetOrLoad returns the cached value or loads, stores and returns it.
// Errors are not cached.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// forget drops key from the eviction order. Caller holds mu.
func (c *Cache[V]) forget(key string) {
	if e, ok := c.elems[key]; ok {
		c.order.Remove(e)
		delete(c.elems, key)
	}
}
