package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Cache is a bounded, time-expiring key/value store with single-flight
// load-or-compute semantics. Entries expire a fixed TTL after they were
// written, regardless of how recently they were read; once the store holds
// maxSize entries the least recently used one is evicted. Safe for concurrent
// use from arbitrarily many goroutines.
type Cache[K comparable, V any] struct {
	store *lru.LRU[K, V]
	group singleflight.Group
}

// New creates a cache bounded to maxSize entries whose entries expire ttl
// after write.
func New[K comparable, V any](maxSize int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		store: lru.NewLRU[K, V](maxSize, nil, ttl),
	}
}

// Get returns the cached value for key, or false if the key is absent or its
// entry has expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.store.Get(key)
}

// GetOrCompute returns the cached value for key, invoking loader to produce
// it on a miss. Concurrent callers for the same missing key collapse into a
// single loader invocation and all receive its result. A loader failure is
// returned to every waiting caller and nothing is cached, so the next call
// retries.
func (c *Cache[K, V]) GetOrCompute(key K, loader func() (V, error)) (V, error) {
	if v, ok := c.store.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(fmt.Sprint(key), func() (interface{}, error) {
		// Another flight may have populated the entry while we queued.
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}
		v, err := loader()
		if err != nil {
			return nil, err
		}
		c.store.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Put stores value under key, resetting its TTL.
func (c *Cache[K, V]) Put(key K, value V) {
	c.store.Add(key, value)
}

// Invalidate removes the entry for key, if present.
func (c *Cache[K, V]) Invalidate(key K) {
	c.store.Remove(key)
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.store.Purge()
}

// Len reports the number of resident entries.
func (c *Cache[K, V]) Len() int {
	return c.store.Len()
}
