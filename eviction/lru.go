// This file implements LRU eviction.

package eviction

import "time"

// lruNode is one key inside the recency list. A doubly-linked list keeps
// usage order so that both ends and arbitrary removals are O(1).
type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// lru is the concrete Least-Recently-Used policy.
//
// The list is the cache's access-order tracker:
// head = most recently used, tail = least recently used.
// The map gives O(1) access to any node so a read can splice its node
// to the front without scanning.
type lru struct {
	nodes map[string]*lruNode
	head  *lruNode
	tail  *lruNode
}

func newLRU() *lru {
	return &lru{nodes: make(map[string]*lruNode)}
}

// OnGet marks a key as "just used" by moving its node to the front.
func (l *lru) OnGet(k string) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		l.pushFront(n)
	}
}

// OnPut registers a new key at the front (a fresh insert counts as a use).
// A key that is already tracked is left alone; the engine deletes before
// re-inserting, so in practice this branch only guards double bookkeeping.
func (l *lru) OnPut(k string, _ time.Time) {
	if _, ok := l.nodes[k]; ok {
		return
	}
	n := &lruNode{key: k}
	l.nodes[k] = n
	l.pushFront(n)
}

// Evict removes and returns the least recently used key, which always
// sits at the tail of the list.
func (l *lru) Evict() string {
	if l.tail == nil {
		return ""
	}
	k := l.tail.key
	l.unlink(l.tail)
	delete(l.nodes, k)
	return k
}

// Remove drops bookkeeping for an explicitly deleted key.
func (l *lru) Remove(k string) {
	if n, ok := l.nodes[k]; ok {
		l.unlink(n)
		delete(l.nodes, k)
	}
}

func (l *lru) Reset() {
	l.nodes = make(map[string]*lruNode)
	l.head = nil
	l.tail = nil
}

func (l *lru) pushFront(n *lruNode) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *lru) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
}
