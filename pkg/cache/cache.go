// Package cache provides a thread-safe LRU cache for generated evaluation
// closures.
//
// A ComputedExpression regenerates its closure on every Compute call because
// parameter kinds resolve late and tolerance is a per-call input. When
// caching is enabled, closures are memoized here keyed by the parameter-kind
// fingerprint plus the tolerance shape: any kind re-determination changes
// the key, so a stale closure can never be served.
//
// # Example
//
//	c := cache.New(256)
//	fn, err := c.GetOrGenerate(key, generate)
package cache

import (
	"container/list"
	"sync"

	"github.com/gocompute/gocompute/pkg/nodes"
)

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key string
	fn  nodes.EvalFunc
}

// Cache is a thread-safe LRU (Least Recently Used) cache of generated
// closures. Once the capacity is reached, the least recently accessed entry
// is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// New creates a new LRU cache with the given capacity.
// capacity must be > 0; if <= 0, a default of 64 is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 64
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a generated closure from the cache.
// Returns (fn, true) if found and moves the entry to front (MRU).
func (c *Cache) Get(key string) (nodes.EvalFunc, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !alreadyFront {
		// Promote under write lock; re-check in case of concurrent eviction.
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()
		if !ok {
			return nil, false
		}
	}
	return el.Value.(*entry).fn, true
}

// Set inserts or replaces a closure in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, fn nodes.EvalFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).fn = fn
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{key: key, fn: fn})
	c.items[key] = el
}

// GetOrGenerate retrieves the closure for key, or calls generate() to build
// it, caches the result, and returns it. Errors are not negatively cached.
func (c *Cache) GetOrGenerate(key string, generate func() (nodes.EvalFunc, error)) (nodes.EvalFunc, error) {
	if fn, ok := c.Get(key); ok {
		return fn, nil
	}
	fn, err := generate()
	if err != nil {
		return nil, err
	}
	c.Set(key, fn)
	return fn, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
