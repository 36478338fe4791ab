package cache

import (
	"sync"
	"time"
)

// entry stores a cached value, its absolute expiration timestamp and the
// tags it can be invalidated through.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
	tags      []string
}

// TaggedCache is a lightweight map-backed cache with per-item TTL, tag
// invalidation and optional concurrency safety. There is no background
// janitor; cleanup is lazy or via PurgeExpired.
type TaggedCache[K comparable, V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	// If muPtr is non-nil, it guards all operations.
	muPtr *sync.RWMutex

	items map[K]entry[V]

	// tagged indexes the keys carrying each tag.
	tagged map[string]map[K]struct{}
}

// Options controls construction of a TaggedCache.
type Options struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	// If false, the cache is not safe for concurrent use and may be faster
	// in single-threaded contexts.
	ConcurrencySafe bool
}

// NewTaggedCache constructs a new TaggedCache with the given options.
func NewTaggedCache[K comparable, V any](opts Options) *TaggedCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	return &TaggedCache[K, V]{
		muPtr:  mu,
		items:  make(map[K]entry[V]),
		tagged: make(map[string]map[K]struct{}),
	}
}

func (c *TaggedCache[K, V]) lockR() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.RLock()
	return c.muPtr.RUnlock
}

func (c *TaggedCache[K, V]) lockW() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Get implements Store.Get.
func (c *TaggedCache[K, V]) Get(key K) (V, bool) {
	unlock := c.lockR()
	defer unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		// expired; treat as miss (lazy cleanup deferred to PurgeExpired)
		return zero, false
	}
	return e.value, true
}

// Set implements Store.Set. Overwriting a key replaces its tags as well.
func (c *TaggedCache[K, V]) Set(key K, value V, ttl time.Duration, tags ...string) {
	unlock := c.lockW()
	defer unlock()

	c.dropLocked(key)

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: exp,
		tags:      tags,
	}
	for _, tag := range tags {
		if _, ok := c.tagged[tag]; !ok {
			c.tagged[tag] = make(map[K]struct{})
		}
		c.tagged[tag][key] = struct{}{}
	}
}

// Delete implements Store.Delete.
func (c *TaggedCache[K, V]) Delete(key K) {
	unlock := c.lockW()
	defer unlock()
	c.dropLocked(key)
}

// InvalidateTag implements Store.InvalidateTag.
func (c *TaggedCache[K, V]) InvalidateTag(tag string) {
	unlock := c.lockW()
	defer unlock()
	for key := range c.tagged[tag] {
		c.dropLocked(key)
	}
}

// dropLocked removes a key and unindexes its tags. Caller holds the write lock.
func (c *TaggedCache[K, V]) dropLocked(key K) {
	e, ok := c.items[key]
	if !ok {
		return
	}
	delete(c.items, key)
	for _, tag := range e.tags {
		if keys, ok := c.tagged[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.tagged, tag)
			}
		}
	}
}

// Has implements Store.Has.
func (c *TaggedCache[K, V]) Has(key K) bool {
	unlock := c.lockR()
	defer unlock()
	e, ok := c.items[key]
	if !ok {
		return false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		return false
	}
	return true
}

// Len implements Store.Len. It counts only non-expired entries.
func (c *TaggedCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	count := 0
	for _, e := range c.items {
		if e.expiresAt.IsZero() || now().Before(e.expiresAt) {
			count++
		}
	}
	return count
}

// Clear implements Store.Clear.
func (c *TaggedCache[K, V]) Clear() {
	unlock := c.lockW()
	defer unlock()
	c.items = make(map[K]entry[V])
	c.tagged = make(map[string]map[K]struct{})
}

// PurgeExpired implements Store.PurgeExpired.
func (c *TaggedCache[K, V]) PurgeExpired() {
	unlock := c.lockW()
	defer unlock()
	if len(c.items) == 0 {
		return
	}
	nowTs := now()
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && nowTs.After(e.expiresAt) {
			c.dropLocked(k)
		}
	}
}

// Ensure TaggedCache implements Store at compile time.
var _ Store[any, any] = (*TaggedCache[any, any])(nil)
