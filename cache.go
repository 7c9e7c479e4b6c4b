package cache

import (
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pohlai88/aibos-cache/api"
	"github.com/pohlai88/aibos-cache/eviction"
	"github.com/pohlai88/aibos-cache/stats"
	"github.com/pohlai88/aibos-cache/tagindex"
	"github.com/pohlai88/aibos-cache/types"
)

/*
Engine is the cache engine. This struct is the orchestrator that connects:
- the entry store
- eviction
- the tag index
- expiry and the cleanup sweeper
- statistics and health
- bulk, warming and export/import operations

One Engine is one cache. There is no hidden package-level instance:
construct it once at startup and hand it to whoever needs it.
*/
type Engine struct {

	// mu guards store, policy, tags and cfg as one unit. Anything that
	// touches more than one of them must hold it for the whole step so
	// the structures can never disagree about which keys are alive.
	mu sync.RWMutex

	cfg    Config
	store  *entryStore
	policy eviction.Policy
	tags   *tagindex.Index

	// collector always runs (subject to the EnableStatistics flag);
	// metrics is the optional external observability hook.
	collector *stats.Collector
	metrics   types.Metrics

	log *zap.Logger
	clk clock.Clock

	// sf collapses concurrent GetOrSet misses for the same key into a
	// single factory invocation.
	sf singleflight.Group

	// lifeMu guards the sweeper lifecycle and the closed flag handoff.
	// It is separate from mu so stopping the sweeper (which may be
	// waiting on mu inside a sweep) can never deadlock.
	lifeMu    sync.Mutex
	sweepStop chan struct{}
	sweepWG   sync.WaitGroup

	closed bool
}

var _ api.Cache = (*Engine)(nil)

// New constructs an engine, applies options, and starts the background
// sweeper if cleanup is enabled. New never returns nil.
func New(opts ...Option) *Engine {
	o := options{
		cfg:     DefaultConfig(),
		logger:  zap.NewNop(),
		clk:     clock.New(),
		metrics: types.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg.EvictionPolicy = normalizePolicy(o.cfg.EvictionPolicy, o.logger)

	e := &Engine{
		cfg:       o.cfg,
		store:     newEntryStore(),
		policy:    eviction.NewPolicy(o.cfg.EvictionPolicy),
		tags:      tagindex.New(),
		collector: stats.NewCollector(o.cfg.EnableStatistics),
		metrics:   o.metrics,
		log:       o.logger,
		clk:       o.clk,
	}

	e.lifeMu.Lock()
	e.startSweeperLocked(o.cfg.CleanupInterval)
	e.lifeMu.Unlock()

	return e
}

/*
Configure adjusts the engine at runtime. Changes take effect on the next
operation: shrinking MaxSize, for example, does not evict immediately,
it just makes the next Set evict.

Two changes have immediate side effects:
- a new CleanupInterval restarts the sweeper
- a new EvictionPolicy rebuilds eviction bookkeeping from the live store
*/
func (e *Engine) Configure(opts ...Option) {
	e.mu.Lock()

	o := options{cfg: e.cfg, logger: e.log, clk: e.clk, metrics: e.metrics}
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg.EvictionPolicy = normalizePolicy(o.cfg.EvictionPolicy, o.logger)

	prevInterval := e.cfg.CleanupInterval
	prevPolicy := e.cfg.EvictionPolicy

	e.cfg = o.cfg
	e.log = o.logger
	e.clk = o.clk
	e.metrics = o.metrics
	e.collector.SetEnabled(o.cfg.EnableStatistics)

	if o.cfg.EvictionPolicy != prevPolicy {
		e.policy = eviction.NewPolicy(o.cfg.EvictionPolicy)
		e.rebuildPolicyLocked()
	}

	restart := o.cfg.CleanupInterval != prevInterval
	interval := o.cfg.CleanupInterval
	e.mu.Unlock()

	if restart {
		e.lifeMu.Lock()
		e.mu.RLock()
		closed := e.closed
		e.mu.RUnlock()
		if !closed {
			e.stopSweeperLocked()
			e.startSweeperLocked(interval)
		}
		e.lifeMu.Unlock()
	}
}

/*
Set stores a value under a key.

Order matters here and mirrors the consistency invariant:
 1. remove any existing entry for the key (keeps the tag index exact)
 2. evict one entry if the store is at capacity
 3. insert the fresh entry and register its tags

Set never fails on valid input. An unserializable value only degrades
the memory estimate, never the write.
*/
func (e *Engine) Set(key string, value any, opts types.SetOptions) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	size := e.estimateSize(key, value)
	now := e.clk.Now()

	if old, ok := e.store.Get(key); ok {
		e.removeLocked(old)
	}

	if e.cfg.MaxSize > 0 && e.store.Len() >= e.cfg.MaxSize {
		e.evictOneLocked()
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = e.cfg.DefaultTTL
	}
	if ttl < 0 {
		// Negative TTL is the explicit opt-out from the default.
		ttl = 0
	}

	ent := &types.CacheEntry{
		Key:        key,
		Value:      value,
		CreatedAt:  now,
		AccessedAt: now,
		TTL:        ttl,
		Tags:       slices.Clone(opts.Tags),
		Size:       size,
	}
	if ttl > 0 {
		ent.ExpiresAt = now.Add(ttl)
	}

	e.store.Put(key, ent)
	e.tags.Add(key, ent.Tags)
	e.policy.OnPut(key, now)
}

/*
Get retrieves a value.

An expired entry counts as a miss and is deleted on the spot (lazy
expiry); a live one has its access metadata refreshed and is promoted
in the recency order.
*/
func (e *Engine) Get(key string) (any, bool) {
	return e.get(key, true)
}

// get is the shared read path. countMiss lets GetOrSet re-check a key
// inside a singleflight without charging a second miss for the same
// logical lookup; a hit still counts either way.
func (e *Engine) get(key string, countMiss bool) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.store.Get(key)
	if !ok {
		if countMiss {
			e.collector.Miss()
			e.metrics.Miss()
		}
		return nil, false
	}

	now := e.clk.Now()
	if ent.Expired(now) {
		e.removeLocked(ent)
		e.collector.Expire()
		e.metrics.Expire()
		if countMiss {
			e.collector.Miss()
			e.metrics.Miss()
		}
		return nil, false
	}

	ent.AccessedAt = now
	ent.AccessCount++
	e.policy.OnGet(key)

	e.collector.Hit()
	e.metrics.Hit()
	return ent.Value, true
}

// Has reports whether a live, unexpired entry exists for the key. It
// uses the same notion of expiry as Get but touches neither the access
// metadata nor the hit/miss counters.
func (e *Engine) Has(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ent, ok := e.store.Get(key)
	return ok && !ent.Expired(e.clk.Now())
}

// Delete removes an entry from the store, the eviction bookkeeping and
// every tag bucket it belongs to. It reports whether an entry existed,
// so calling it twice returns true then false.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.store.Get(key)
	if !ok {
		return false
	}
	e.removeLocked(ent)
	return true
}

// Clear drops the store, eviction bookkeeping and tag index atomically.
// Hit/miss statistics survive a clear; they describe the engine's
// lifetime, not the current contents.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked()
}

// Expire sets or replaces the TTL of an existing key, counted from now.
// A TTL <= 0 removes the expiry. Returns false when the key is absent.
func (e *Engine) Expire(key string, ttl time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.store.Get(key)
	if !ok {
		return false
	}

	if ttl > 0 {
		ent.TTL = ttl
		ent.ExpiresAt = e.clk.Now().Add(ttl)
	} else {
		ent.TTL = 0
		ent.ExpiresAt = time.Time{}
	}
	return true
}

// TTL returns the remaining time-to-live of a key, with Redis-style
// sentinels: -1 for a key without TTL, -2 for a missing or already
// expired key.
func (e *Engine) TTL(key string) time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ent, ok := e.store.Get(key)
	if !ok {
		return -2
	}
	if ent.ExpiresAt.IsZero() {
		return -1
	}

	d := ent.ExpiresAt.Sub(e.clk.Now())
	if d < 0 {
		return -2
	}
	return d
}

//
// ================= TAG-BASED INVALIDATION =================
//

// InvalidateByTag deletes every key registered under the tag and
// returns how many entries were removed. The bucket disappears with
// its last key.
func (e *Engine) InvalidateByTag(tag string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.invalidateTagLocked(tag)
}

/*
InvalidateByTags invalidates several tags in one atomic step and
returns the total number of entries removed.

A key carrying more than one of the requested tags is deleted exactly
once: the first tag that reaches it removes it from every bucket it
belongs to, so later tags no longer see it. The total is therefore a
best-effort "entries actually deleted" count, not a per-tag partition.
*/
func (e *Engine) InvalidateByTags(tags []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	for _, tag := range tags {
		total += e.invalidateTagLocked(tag)
	}
	return total
}

// KeysByTag returns a read-only snapshot of the keys currently
// registered under a tag.
func (e *Engine) KeysByTag(tag string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tags.Keys(tag)
}

func (e *Engine) invalidateTagLocked(tag string) int {
	n := 0
	for _, k := range e.tags.Keys(tag) {
		ent, ok := e.store.Get(k)
		if !ok {
			continue
		}
		e.removeLocked(ent)
		e.collector.Invalidation()
		e.metrics.Invalidation()
		n++
	}
	return n
}

//
// ================= INTROSPECTION =================
//

// Len returns the number of entries currently stored, expired or not.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Len()
}

// Keys returns a snapshot of all stored keys, in no particular order.
func (e *Engine) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Keys()
}

// Statistics returns an immutable snapshot of the counters plus the
// figures recomputed from the live store: entry count, estimated
// memory, and the average TTL across entries that declare one.
func (e *Engine) Statistics() stats.Snapshot {
	e.mu.RLock()

	entries := e.store.Len()
	var mem int64
	var ttlSum time.Duration
	ttlCount := 0

	e.store.Range(func(ent *types.CacheEntry) bool {
		mem += ent.Size
		if ent.TTL > 0 {
			ttlSum += ent.TTL
			ttlCount++
		}
		return true
	})
	e.mu.RUnlock()

	var avgTTL time.Duration
	if ttlCount > 0 {
		avgTTL = ttlSum / time.Duration(ttlCount)
	}

	return e.collector.Snapshot(entries, mem, avgTTL)
}

// Health evaluates the current snapshot against the engine's memory
// budget and returns a status with per-issue recommendations.
func (e *Engine) Health() stats.Report {
	e.mu.RLock()
	maxMemory := e.cfg.MaxMemory
	e.mu.RUnlock()

	return stats.Diagnose(e.Statistics(), maxMemory)
}

// Close shuts the engine down: the sweeper is stopped and the store is
// cleared. Operations on a closed engine behave like misses; Set
// becomes a no-op. Close is safe to call more than once.
func (e *Engine) Close() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.stopSweeperLocked()

	e.mu.Lock()
	e.clearLocked()
	e.mu.Unlock()
}

//
// ================= INTERNALS =================
//

// removeLocked takes an entry out of all three structures in one step.
// Callers hold e.mu.
func (e *Engine) removeLocked(ent *types.CacheEntry) {
	e.store.Delete(ent.Key)
	e.policy.Remove(ent.Key)
	e.tags.Remove(ent.Key, ent.Tags)
}

// evictOneLocked asks the policy for a victim and removes it.
// Callers hold e.mu.
func (e *Engine) evictOneLocked() {
	victim := e.policy.Evict()
	if victim == "" {
		return
	}

	if ent, ok := e.store.Get(victim); ok {
		e.store.Delete(victim)
		e.tags.Remove(victim, ent.Tags)
	}

	e.collector.Eviction()
	e.metrics.Eviction()
	e.log.Debug("evicted entry",
		zap.String("key", victim),
		zap.String("policy", string(e.cfg.EvictionPolicy)))
}

func (e *Engine) clearLocked() {
	e.store.Reset()
	e.policy.Reset()
	e.tags.Reset()
}

// logger and timeSource hand out the injectable collaborators to code
// paths that run outside e.mu (the sweeper goroutine, warming, import).
// Configure may swap them at runtime, so the pointer read needs the
// lock even though the collaborators themselves are safe to share.
func (e *Engine) logger() *zap.Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.log
}

func (e *Engine) timeSource() clock.Clock {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clk
}

/*
rebuildPolicyLocked replays the live store into a fresh policy.

Entries are replayed oldest-first so the new bookkeeping approximates
the real order: recency order for LRU, creation order for FIFO and
Oldest. Access frequencies are not replayed; after a rebuild LFU starts
counting from scratch. Callers hold e.mu.
*/
func (e *Engine) rebuildPolicyLocked() {
	ents := make([]*types.CacheEntry, 0, e.store.Len())
	e.store.Range(func(ent *types.CacheEntry) bool {
		ents = append(ents, ent)
		return true
	})

	byCreation := e.cfg.EvictionPolicy == eviction.FIFO ||
		e.cfg.EvictionPolicy == eviction.Oldest

	sort.SliceStable(ents, func(i, j int) bool {
		if byCreation {
			return ents[i].CreatedAt.Before(ents[j].CreatedAt)
		}
		return ents[i].AccessedAt.Before(ents[j].AccessedAt)
	})

	e.policy.Reset()
	for _, ent := range ents {
		e.policy.OnPut(ent.Key, ent.CreatedAt)
	}
}

// entryOverheadBytes is the fixed per-entry bookkeeping charge in the
// memory estimate.
const entryOverheadBytes = 200

/*
estimateSize is a heuristic, not an accounting: 2 bytes per key
character (wide-char assumption), 2 bytes per character of the value's
JSON form, plus a fixed overhead. A value that cannot be serialized is
charged for its key and overhead only, with a log line instead of a
failure; the estimate is advisory and must never block a write.
*/
func (e *Engine) estimateSize(key string, value any) int64 {
	size := int64(2*len(key) + entryOverheadBytes)

	b, err := json.Marshal(value)
	if err != nil {
		e.log.Warn("memory estimate degraded, value not serializable",
			zap.String("key", key),
			zap.Error(err))
		return size
	}
	return size + int64(2*len(b))
}
