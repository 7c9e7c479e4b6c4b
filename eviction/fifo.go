// This file implements FIFO eviction.

package eviction

import "time"

/*
fifo keeps keys in a pure insertion-order queue. Reads never reorder it.

This is deliberately a separate structure from the LRU recency list:
sharing one list for both policies would let reads reshuffle "insertion"
order and FIFO would silently stop being first-in-first-out.
*/
type fifo struct {
	// queue keeps keys in arrival order; index 0 is the oldest.
	queue []string

	// set tracks which keys are currently queued so OnPut and Remove
	// stay O(1) for the membership check.
	set map[string]struct{}
}

func newFIFO() *fifo {
	return &fifo{
		queue: make([]string, 0),
		set:   make(map[string]struct{}),
	}
}

// OnGet is ignored. FIFO cares only about arrival, never about use.
func (f *fifo) OnGet(string) {}

// OnPut appends a key the first time it is seen.
func (f *fifo) OnPut(k string, _ time.Time) {
	if _, ok := f.set[k]; ok {
		return
	}
	f.queue = append(f.queue, k)
	f.set[k] = struct{}{}
}

// Evict returns the key at the front of the queue: the oldest arrival.
func (f *fifo) Evict() string {
	if len(f.queue) == 0 {
		return ""
	}
	k := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.set, k)
	return k
}

// Remove drops a key that was deleted for reasons other than eviction,
// preserving the order of everything behind it.
func (f *fifo) Remove(k string) {
	if _, ok := f.set[k]; !ok {
		return
	}
	delete(f.set, k)
	for i, v := range f.queue {
		if v == k {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			break
		}
	}
}

func (f *fifo) Reset() {
	f.queue = f.queue[:0]
	f.set = make(map[string]struct{})
}
