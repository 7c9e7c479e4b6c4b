// Package metrics provides a Prometheus-backed implementation of the
// cache's Metrics hook. It is optional: the engine defaults to a noop
// and only emits here when a caller wires it in.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pohlai88/aibos-cache/types"
)

// Prometheus counts cache lifecycle events as Prometheus counters.
type Prometheus struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	evictions     prometheus.Counter
	expirations   prometheus.Counter
	invalidations prometheus.Counter
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus registers the cache counters with the given registerer.
// Pass prometheus.DefaultRegisterer for the usual process-wide registry,
// or a private registry in tests.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cache",
			Name:      "hits_total",
			Help:      "Reads served from a live cache entry.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cache",
			Name:      "misses_total",
			Help:      "Reads that found no entry or an expired one.",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cache",
			Name:      "evictions_total",
			Help:      "Entries removed to make room under the capacity limit.",
		}),
		expirations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cache",
			Name:      "expirations_total",
			Help:      "Entries removed because their TTL passed.",
		}),
		invalidations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cache",
			Name:      "invalidations_total",
			Help:      "Entries removed through tag invalidation.",
		}),
	}
}

func (p *Prometheus) Hit()          { p.hits.Inc() }
func (p *Prometheus) Miss()         { p.misses.Inc() }
func (p *Prometheus) Eviction()     { p.evictions.Inc() }
func (p *Prometheus) Expire()       { p.expirations.Inc() }
func (p *Prometheus) Invalidation() { p.invalidations.Inc() }
