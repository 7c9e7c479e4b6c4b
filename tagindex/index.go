// Package tagindex maintains the mapping from tags to the cache keys
// that carry them, so related entries can be invalidated as a group.
package tagindex

/*
Index is a reverse index: tag → set of keys.

The engine keeps it strictly consistent with the entry store: every key
in a bucket has a live entry, and a bucket disappears the moment its
last key does. The index itself is not safe for concurrent use; the
engine's lock covers it, the same way it covers the store.
*/
type Index struct {
	buckets map[string]map[string]struct{}
}

func New() *Index {
	return &Index{buckets: make(map[string]map[string]struct{})}
}

// Add registers a key under each of the given tags.
func (ix *Index) Add(key string, tags []string) {
	for _, t := range tags {
		b, ok := ix.buckets[t]
		if !ok {
			b = make(map[string]struct{})
			ix.buckets[t] = b
		}
		b[key] = struct{}{}
	}
}

// Remove unregisters a key from each of the given tags, deleting any
// bucket it empties.
func (ix *Index) Remove(key string, tags []string) {
	for _, t := range tags {
		b, ok := ix.buckets[t]
		if !ok {
			continue
		}
		delete(b, key)
		if len(b) == 0 {
			delete(ix.buckets, t)
		}
	}
}

// Keys returns a snapshot of the keys currently registered under a tag.
// The returned slice is the caller's to keep; mutating it does not
// touch the index.
func (ix *Index) Keys(tag string) []string {
	b, ok := ix.buckets[tag]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of live buckets. Used by tests.
func (ix *Index) Len() int {
	return len(ix.buckets)
}

// Reset drops every bucket.
func (ix *Index) Reset() {
	ix.buckets = make(map[string]map[string]struct{})
}
