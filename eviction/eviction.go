package eviction

/*
This file defines how the cache decides what to remove when it runs out of space.
*/

import "time"

/*
Policy is the interface that all eviction strategies must follow.

It is a set of rules that any eviction algorithm (LRU, LFU, FIFO, ...)
must obey so the rest of the cache can interact with it in a uniform way.

The cache does NOT care how eviction works internally.
It only calls these methods.
*/
type Policy interface {

	// OnGet is called whenever a key is read from the cache.
	//
	// Some eviction strategies care about reads:
	// - LRU needs to know what was accessed recently
	// - LFU counts accesses
	//
	// FIFO and Oldest ignore this.
	OnGet(key string)

	// OnPut is called whenever a key is inserted into the cache,
	// carrying the entry's creation time.
	//
	// This lets the eviction policy:
	// - Track insertion order
	// - Initialize counters or age metadata
	OnPut(key string, createdAt time.Time)

	// Remove is called when a key is explicitly removed
	// from the cache (deleted, expired, or invalidated by tag),
	// so the policy can drop its internal bookkeeping for it.
	Remove(key string)

	// Evict is called when the cache is FULL and needs space.
	//
	// The policy decides which key should go and returns it.
	// The cache then actually removes it from storage.
	// An empty string means there is nothing to evict.
	Evict() string

	// Reset drops all bookkeeping. Used when the store is cleared or
	// the policy is rebuilt after an import or a reconfiguration.
	Reset()
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): evicts the key that has NOT been
	// accessed for the longest time.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): evicts the key that has been
	// accessed the fewest times. Works well when some keys are
	// consistently hot and others are rarely touched.
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): evicts the oldest inserted key in
	// pure insertion order, regardless of access pattern.
	FIFO PolicyType = "FIFO"

	// Oldest evicts the entry with the smallest creation time. Since
	// the cache re-creates an entry on every Set, this coincides with
	// insertion order of the entries currently alive, but it is kept
	// as its own policy so the intent stays visible in configuration.
	Oldest PolicyType = "TTL_OLDEST"
)

// Valid reports whether t names a supported policy.
func Valid(t PolicyType) bool {
	switch t {
	case LRU, LFU, FIFO, Oldest:
		return true
	}
	return false
}

// NewPolicy is a small factory function.
// Given a PolicyType, it creates the corresponding eviction policy.
// An unrecognized type falls back to LRU: a bad configuration value
// must degrade, never crash the cache.
func NewPolicy(t PolicyType) Policy {
	switch t {
	case LFU:
		return newLFU()
	case FIFO:
		return newFIFO()
	case Oldest:
		return newOldest()
	default:
		return newLRU()
	}
}
