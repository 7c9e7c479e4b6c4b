// This file implements age-based eviction: the entry with the smallest
// creation time goes first, regardless of how often it is used.

package eviction

import "time"

/*
oldest tracks creation times and evicts the entry that has been alive
the longest.

Because the cache re-creates an entry on every Set, creation times only
ever arrive in non-decreasing order, so a queue would suffice in
practice. The policy still compares timestamps explicitly rather than
trusting arrival order: OnPut carries the authoritative CreatedAt (an
import, for example, replays entries whose creation times are in the
past), and correctness here is worth an O(n) scan on the eviction path.
*/
type oldest struct {
	created map[string]time.Time
}

func newOldest() *oldest {
	return &oldest{created: make(map[string]time.Time)}
}

// OnGet is ignored. Age does not change when an entry is read.
func (o *oldest) OnGet(string) {}

// OnPut records when the entry was created.
func (o *oldest) OnPut(k string, createdAt time.Time) {
	o.created[k] = createdAt
}

// Evict returns the key with the smallest creation time.
// Ties are broken arbitrarily.
func (o *oldest) Evict() string {
	var victim string
	var victimAt time.Time
	for k, at := range o.created {
		if victim == "" || at.Before(victimAt) {
			victim = k
			victimAt = at
		}
	}
	if victim != "" {
		delete(o.created, victim)
	}
	return victim
}

// Remove drops bookkeeping for an explicitly deleted key.
func (o *oldest) Remove(k string) {
	delete(o.created, k)
}

func (o *oldest) Reset() {
	o.created = make(map[string]time.Time)
}
