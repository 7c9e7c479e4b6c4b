package types

import "time"

// CacheEntry is intentionally mutable for access metadata.
// AccessedAt/AccessCount updates happen under the engine's lock.
type CacheEntry struct {
	Key         string
	Value       any
	CreatedAt   time.Time
	AccessedAt  time.Time
	AccessCount int64
	TTL         time.Duration // 0 => no TTL
	ExpiresAt   time.Time     // zero => no TTL; derived from CreatedAt + TTL
	Tags        []string      // immutable after creation
	Size        int64         // estimated bytes, computed once at insert
}

// Expired reports whether the entry has outlived its TTL at the given instant.
// Entries without a TTL never expire.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

/*
SetOptions carries the per-entry knobs a caller can pass to Set.

- TTL: how long the entry stays valid. Zero means "use the engine's
  default TTL"; a negative value means "no TTL at all", even when a
  default is configured.
- Tags: labels attached to the entry so that related keys can be
  dropped together later via tag invalidation.
*/
type SetOptions struct {
	TTL  time.Duration
	Tags []string
}

// BulkEntry is one key/value pair in a bulk Set.
type BulkEntry struct {
	Key     string
	Value   any
	Options SetOptions
}
