// This file implements LFU eviction.

package eviction

import "time"

// lfuNode tracks one key and how often it was read.
type lfuNode struct {
	key  string
	freq int
}

/*
lfu is the concrete Least-Frequently-Used policy.

Keys are grouped into buckets by access frequency. minFreq remembers the
smallest frequency currently present so eviction never has to scan every
entry: it looks straight into the coldest bucket.

Ties inside a bucket are broken arbitrarily (map iteration order), which
matches the cache's contract: when several keys share the lowest count,
any one of them may go.
*/
type lfu struct {
	nodes   map[string]*lfuNode
	buckets map[int]map[string]*lfuNode
	minFreq int
}

func newLFU() *lfu {
	return &lfu{
		nodes:   make(map[string]*lfuNode),
		buckets: make(map[int]map[string]*lfuNode),
	}
}

// OnGet bumps a key's frequency, migrating it to the next bucket.
func (l *lfu) OnGet(k string) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}

	old := n.freq
	n.freq++

	delete(l.buckets[old], k)
	if len(l.buckets[old]) == 0 {
		delete(l.buckets, old)
		// The coldest bucket just emptied, so the floor moves up.
		if l.minFreq == old {
			l.minFreq++
		}
	}

	if l.buckets[n.freq] == nil {
		l.buckets[n.freq] = make(map[string]*lfuNode)
	}
	l.buckets[n.freq][k] = n
}

// OnPut starts a new key in the lowest bucket. A fresh insert has never
// been read, so it is immediately the coldest candidate.
func (l *lfu) OnPut(k string, _ time.Time) {
	if _, ok := l.nodes[k]; ok {
		return
	}

	n := &lfuNode{key: k, freq: 1}
	l.nodes[k] = n

	if l.buckets[1] == nil {
		l.buckets[1] = make(map[string]*lfuNode)
	}
	l.buckets[1][k] = n
	l.minFreq = 1
}

// Evict removes any key from the coldest bucket and returns it.
func (l *lfu) Evict() string {
	for k := range l.buckets[l.minFreq] {
		delete(l.buckets[l.minFreq], k)
		delete(l.nodes, k)
		return k
	}
	return ""
}

// Remove drops bookkeeping for an explicitly deleted key.
func (l *lfu) Remove(k string) {
	n, ok := l.nodes[k]
	if !ok {
		return
	}
	delete(l.buckets[n.freq], k)
	delete(l.nodes, k)
}

func (l *lfu) Reset() {
	l.nodes = make(map[string]*lfuNode)
	l.buckets = make(map[int]map[string]*lfuNode)
	l.minFreq = 0
}
