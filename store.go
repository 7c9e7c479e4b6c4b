package cache

import "github.com/pohlai88/aibos-cache/types"

/*
entryStore holds the actual key → entry data.

It is a plain map, not a concurrent structure: every access goes through
the engine's lock, which also covers the eviction policy and the tag
index, so the three can never drift apart. Keeping the store dumb keeps
the consistency story in exactly one place.
*/
type entryStore struct {
	entries map[string]*types.CacheEntry
}

func newEntryStore() *entryStore {
	return &entryStore{entries: make(map[string]*types.CacheEntry)}
}

// Get retrieves an entry by key.
func (s *entryStore) Get(key string) (*types.CacheEntry, bool) {
	ent, ok := s.entries[key]
	return ent, ok
}

// Put inserts or replaces an entry.
func (s *entryStore) Put(key string, ent *types.CacheEntry) {
	s.entries[key] = ent
}

// Delete removes an entry.
func (s *entryStore) Delete(key string) {
	delete(s.entries, key)
}

// Len returns how many entries are stored.
func (s *entryStore) Len() int {
	return len(s.entries)
}

// Keys returns a snapshot of all keys, in no particular order.
func (s *entryStore) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Range calls f for every entry until f returns false.
func (s *entryStore) Range(f func(*types.CacheEntry) bool) {
	for _, ent := range s.entries {
		if !f(ent) {
			return
		}
	}
}

// Reset drops everything.
func (s *entryStore) Reset() {
	s.entries = make(map[string]*types.CacheEntry)
}
