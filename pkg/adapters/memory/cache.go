// Package memory provides in-process implementations of
// ports.ValueCache.
package memory

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache implements ports.ValueCache with an unbounded map.
// Safe for concurrent use.
//
// Entries are never evicted; the cache grows for the life of the binder
// configuration. Use NewLRU for a bounded variant.
type Cache struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewCache creates a new unbounded in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]any),
	}
}

// Get retrieves the value for a key.
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok, nil
}

// Put stores the value for a key.
func (c *Cache) Put(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// LRU implements ports.ValueCache with a bounded least-recently-used
// store. Bounded eviction trades re-invocation on evicted keys for a
// capped footprint; the sharing scope is unchanged.
type LRU struct {
	inner *lru.Cache[string, any]
}

// NewLRU creates a bounded cache holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	inner, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &LRU{inner: inner}, nil
}

// Get retrieves the value for a key, marking it recently used.
func (c *LRU) Get(ctx context.Context, key string) (any, bool, error) {
	v, ok := c.inner.Get(key)
	return v, ok, nil
}

// Put stores the value for a key, evicting the least recently used
// entry when full.
func (c *LRU) Put(ctx context.Context, key string, value any) error {
	c.inner.Add(key, value)
	return nil
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	return c.inner.Len()
}
