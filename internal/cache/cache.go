package cache

import "time"

// Store defines a keyed cache with per-entry TTL and tag invalidation.
// Entries are whole values: they are created on a miss, dropped on expiry or
// invalidation, and never partially updated.
type Store[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value with an optional TTL and a set of invalidation
	// tags. If ttl <= 0, the entry does not expire.
	Set(key K, value V, ttl time.Duration, tags ...string)

	// Delete removes a key if present.
	Delete(key K)

	// InvalidateTag removes every entry carrying the given tag.
	InvalidateTag(tag string)

	// Has reports whether a key is present and not expired.
	Has(key K) bool

	// Len returns the number of non-expired items currently stored.
	Len() int

	// Clear removes all entries.
	Clear()

	// PurgeExpired scans and removes expired entries.
	PurgeExpired()
}
