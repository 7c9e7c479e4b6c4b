package api

import (
	"context"
	"time"

	"github.com/pohlai88/aibos-cache/stats"
	"github.com/pohlai88/aibos-cache/types"
)

/*
Cache defines the PUBLIC API of the cache engine.
This is a contract that guarantees certain behaviors without exposing
internals. Storage layout, eviction bookkeeping, tag indexing, the
cleanup sweeper and concurrency are all hidden behind this interface.

A guiding rule across the whole surface: the cache never crashes the
caller. Anything that goes wrong internally degrades to a miss, a
false, a zero — the only error that propagates is a GetOrSet factory's
own failure.
*/
type Cache interface {

	/*
		Set stores a key-value pair.

		BEHAVIOR:
		---------
		- Replaces any existing entry for the key first
		- Evicts one entry (by the configured policy) when the store
		  is at capacity
		- Applies the default TTL when the options carry none
		- Registers the key under each of its tags

		Set never fails on valid input.
	*/
	Set(key string, value any, opts types.SetOptions)

	/*
		Get retrieves the value for a key.

		BEHAVIOR:
		---------
		- Live entry: refreshes access metadata, promotes the key in
		  recency order, counts a hit, returns (value, true)
		- Absent key: counts a miss, returns (nil, false)
		- Expired entry: deleted on the spot, counts a miss,
		  returns (nil, false)
	*/
	Get(key string) (any, bool)

	/*
		Has reports whether a live, unexpired entry exists.
		Same notion of expiry as Get, but no side effects: neither
		access metadata nor hit/miss counters move.
	*/
	Has(key string) bool

	/*
		Delete removes a key from the store, the eviction bookkeeping
		and every tag bucket it belongs to, and reports whether an
		entry existed. Deleting twice returns true then false.
	*/
	Delete(key string) bool

	/*
		Clear drops every entry atomically. Lifetime statistics
		survive; they describe the engine, not its current contents.
	*/
	Clear()

	/*
		Expire sets or replaces the TTL of an existing key, counted
		from now. Returns false when the key is absent.
	*/
	Expire(key string, ttl time.Duration) bool

	/*
		TTL returns the remaining time-to-live for a key.

		RETURN VALUES (Redis-compatible semantics):
		-------------------------------------------
		> 0   : duration remaining before expiration
		-1    : key exists but has no TTL
		-2    : key does not exist or is already expired
	*/
	TTL(key string) time.Duration

	/*
		InvalidateByTag deletes every key registered under the tag and
		returns how many entries were removed.
	*/
	InvalidateByTag(tag string) int

	/*
		InvalidateByTags invalidates several tags atomically. A key
		carrying more than one of the requested tags is deleted exactly
		once, so the total is a best-effort deleted count, not a
		per-tag partition.
	*/
	InvalidateByTags(tags []string) int

	// KeysByTag returns a snapshot of the keys under a tag.
	KeysByTag(tag string) []string

	// GetMany is an independent Get per key, order preserved,
	// nil for every miss.
	GetMany(keys []string) []any

	// SetMany is an independent Set per entry.
	SetMany(entries []types.BulkEntry)

	// DeleteMany is an independent Delete per key; returns how many
	// entries actually existed.
	DeleteMany(keys []string) int

	/*
		GetOrSet returns the cached value, or runs the factory, stores
		its result and returns it. Concurrent misses for the same key
		share one factory invocation. A factory error propagates as-is
		and nothing is stored.
	*/
	GetOrSet(ctx context.Context, key string, factory types.Factory, opts types.SetOptions) (any, error)

	/*
		Warm preloads entries by running their factories concurrently.
		Per-entry failures are logged and swallowed; a partial warm is
		still a successful warm.
	*/
	Warm(ctx context.Context, entries []types.WarmEntry)

	// Len returns the current entry count.
	Len() int

	// Keys returns a snapshot of all stored keys.
	Keys() []string

	// Statistics returns an immutable snapshot: entry count, hit and
	// miss counts, hit rate, evictions, estimated memory usage, and
	// the average TTL across entries that declare one.
	Statistics() stats.Snapshot

	// Health derives healthy/warning/critical from the snapshot, with
	// a recommendation attached to every detected issue.
	Health() stats.Report

	/*
		Export serializes the store, counters and configuration into
		one JSON text blob with a generation timestamp. Callers choose
		what, if anything, to persist it to.
	*/
	Export() string

	/*
		Import restores an exported blob: entries, rebuilt eviction
		bookkeeping and tag index, counters merged into the live ones.
		Malformed input returns false and leaves the cache untouched.
	*/
	Import(blob string) bool

	/*
		Close shuts the engine down: stops the background sweeper and
		clears all entries. Safe to call more than once.
	*/
	Close()
}
