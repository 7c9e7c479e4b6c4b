// Package stats tracks what the cache is doing: running counters for
// hits, misses, evictions and expirations, plus the derived snapshot
// and health reporting built on top of them.
package stats

import (
	"time"

	"go.uber.org/atomic"

	"github.com/pohlai88/aibos-cache/types"
)

/*
Collector accumulates the engine's lifetime counters.

Counters are atomics rather than lock-guarded ints so the engine can
bump them from any path (read path, sweeper, warming goroutines)
without widening its critical sections.

The collector doubles as a types.Metrics implementation: the engine
feeds it the same events it forwards to any external metrics backend.
*/
type Collector struct {
	enabled atomic.Bool

	hits          atomic.Int64
	misses        atomic.Int64
	evictions     atomic.Int64
	expirations   atomic.Int64
	invalidations atomic.Int64
}

var _ types.Metrics = (*Collector)(nil)

func NewCollector(enabled bool) *Collector {
	c := &Collector{}
	c.enabled.Store(enabled)
	return c
}

// SetEnabled flips statistics collection at runtime. Disabling stops
// the counters from moving; it does not reset them.
func (c *Collector) SetEnabled(v bool) { c.enabled.Store(v) }

func (c *Collector) Hit() {
	if c.enabled.Load() {
		c.hits.Inc()
	}
}

func (c *Collector) Miss() {
	if c.enabled.Load() {
		c.misses.Inc()
	}
}

func (c *Collector) Eviction() {
	if c.enabled.Load() {
		c.evictions.Inc()
	}
}

func (c *Collector) Expire() {
	if c.enabled.Load() {
		c.expirations.Inc()
	}
}

func (c *Collector) Invalidation() {
	if c.enabled.Load() {
		c.invalidations.Inc()
	}
}

// Merge folds counters from an imported cache image into the live ones.
// Import semantics are additive: history from the exported instance is
// carried forward, not replaced.
func (c *Collector) Merge(hits, misses, evictions, expirations, invalidations int64) {
	c.hits.Add(hits)
	c.misses.Add(misses)
	c.evictions.Add(evictions)
	c.expirations.Add(expirations)
	c.invalidations.Add(invalidations)
}

/*
Snapshot is an immutable view of the cache at one instant.

The counter fields come straight from the collector; Entries,
MemoryBytes and AverageTTL are recomputed from the entry store by the
engine at snapshot time, so the view stays honest even after imports,
clears and reconfigurations.
*/
type Snapshot struct {
	Entries       int
	Hits          int64
	Misses        int64
	HitRate       float64
	Evictions     int64
	Expirations   int64
	Invalidations int64
	MemoryBytes   int64
	AverageTTL    time.Duration
}

// Snapshot assembles the immutable view. The store-derived figures are
// passed in by the engine, which holds the lock while computing them.
func (c *Collector) Snapshot(entries int, memoryBytes int64, avgTTL time.Duration) Snapshot {
	hits := c.hits.Load()
	misses := c.misses.Load()

	// 0, not NaN, when nothing has been asked of the cache yet.
	rate := 0.0
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	return Snapshot{
		Entries:       entries,
		Hits:          hits,
		Misses:        misses,
		HitRate:       rate,
		Evictions:     c.evictions.Load(),
		Expirations:   c.expirations.Load(),
		Invalidations: c.invalidations.Load(),
		MemoryBytes:   memoryBytes,
		AverageTTL:    avgTTL,
	}
}
