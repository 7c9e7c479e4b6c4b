package cache

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/pohlai88/aibos-cache/eviction"
	"github.com/pohlai88/aibos-cache/types"
)

/*
Config controls capacity, expiry and maintenance behavior of the engine.

Every field can be changed at runtime through Configure; a change takes
effect on the next operation. The one exception with immediate side
effects is CleanupInterval: changing it restarts the background sweeper.
*/
type Config struct {

	// MaxSize caps the number of entries. When a Set would push the
	// store past it, one entry is evicted first. <= 0 means unbounded.
	MaxSize int

	// MaxMemory is a soft, advisory budget in bytes. It is never
	// enforced by eviction; it only feeds health reporting.
	MaxMemory int64

	// DefaultTTL applies to entries whose SetOptions carry no TTL.
	// Zero means entries without an explicit TTL never expire.
	DefaultTTL time.Duration

	// EvictionPolicy selects who goes first when the cache is full.
	EvictionPolicy eviction.PolicyType

	// CleanupInterval is how often the background sweeper scans for
	// expired entries. <= 0 disables proactive cleanup; lazy expiry
	// on access still works.
	CleanupInterval time.Duration

	// EnableStatistics toggles the hit/miss/eviction counters.
	EnableStatistics bool
}

// DefaultConfig returns the configuration New starts from.
func DefaultConfig() Config {
	return Config{
		MaxSize:          1000,
		MaxMemory:        64 << 20, // 64 MiB, advisory
		DefaultTTL:       5 * time.Minute,
		EvictionPolicy:   eviction.LRU,
		CleanupInterval:  time.Minute,
		EnableStatistics: true,
	}
}

// options gathers everything New and Configure can adjust: the config
// itself plus the injectable collaborators.
type options struct {
	cfg     Config
	logger  *zap.Logger
	clk     clock.Clock
	metrics types.Metrics
}

// Option mutates engine options. Options compose left to right.
type Option func(*options)

// normalizePolicy maps an unrecognized policy name to LRU with a
// warning. Configuration mistakes degrade, they never crash.
func normalizePolicy(p eviction.PolicyType, log *zap.Logger) eviction.PolicyType {
	if eviction.Valid(p) {
		return p
	}
	log.Warn("unknown eviction policy, falling back to LRU",
		zap.String("policy", string(p)))
	return eviction.LRU
}

// WithConfig replaces the whole configuration at once.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

func WithMaxSize(n int) Option {
	return func(o *options) { o.cfg.MaxSize = n }
}

func WithMaxMemory(bytes int64) Option {
	return func(o *options) { o.cfg.MaxMemory = bytes }
}

func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) { o.cfg.DefaultTTL = ttl }
}

func WithEvictionPolicy(p eviction.PolicyType) Option {
	return func(o *options) { o.cfg.EvictionPolicy = p }
}

func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cfg.CleanupInterval = d }
}

func WithStatistics(enabled bool) Option {
	return func(o *options) { o.cfg.EnableStatistics = enabled }
}

// WithLogger sets the logger the engine uses for swallowed errors and
// maintenance events. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock injects the time source. Tests use a mock clock to drive
// TTL expiry and the sweeper deterministically.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clk = c
		}
	}
}

// WithMetrics wires an external metrics backend (e.g. the Prometheus
// adapter in the metrics package). The default is a noop.
func WithMetrics(m types.Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
