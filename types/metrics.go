package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The engine calls
these methods whenever something happens, in addition to its own
internal statistics counters.

This is the hook for external observability systems (Prometheus,
statsd, ...) without coupling the engine to any of them.
*/
type Metrics interface {

	// Hit is called when the cache successfully returns a live value.
	Hit()

	// Miss is called when the cache does NOT find a key, or finds one
	// that has already expired.
	Miss()

	// Eviction is called when a key is removed because the cache is
	// full and needs space.
	Eviction()

	// Expire is called when a key is removed because it has passed its
	// TTL, either lazily on access or by the cleanup sweeper.
	Expire()

	// Invalidation is called for every key removed through tag-based
	// invalidation.
	Invalidation()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

We don't want to force every user of the cache to wire up a metrics
backend. If someone does not care about metrics, the cache should still
work without nil checks scattered everywhere, so the engine substitutes
this implementation when none is configured.
*/
type NoopMetrics struct{}

// All methods below intentionally do nothing.
// This satisfies the Metrics interface without side effects.

func (NoopMetrics) Hit()          {}
func (NoopMetrics) Miss()         {}
func (NoopMetrics) Eviction()     {}
func (NoopMetrics) Expire()       {}
func (NoopMetrics) Invalidation() {}
