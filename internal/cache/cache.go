// Package cache provides a small typed TTL cache on top of go-cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Flush removes every entry
	Flush()

	// Size returns the current number of items in the cache
	Size() int
}

// TTLCache stores values of one type for a fixed time. Expired entries are
// purged by go-cache's janitor every cleanup interval.
type TTLCache[T any] struct {
	c *gocache.Cache
}

var _ Cache[int] = (*TTLCache[int])(nil)

func NewTTLCache[T any](ttl, cleanupInterval time.Duration) *TTLCache[T] {
	return &TTLCache[T]{c: gocache.New(ttl, cleanupInterval)}
}

func (t *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	v, ok := t.c.Get(key)
	if !ok {
		return zero, false
	}
	data, ok := v.(T)
	if !ok {
		return zero, false
	}
	return data, true
}

func (t *TTLCache[T]) Set(key string, data T) {
	t.c.SetDefault(key, data)
}

func (t *TTLCache[T]) Delete(key string) {
	t.c.Delete(key)
}

func (t *TTLCache[T]) Flush() {
	t.c.Flush()
}

// Size counts stored items, including expired ones not yet purged.
func (t *TTLCache[T]) Size() int {
	return t.c.ItemCount()
}
