package cache

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pohlai88/aibos-cache/types"
)

/*
This file implements export/import: serializing the whole cache into
one JSON text blob and restoring it into a (usually fresh) engine.

The blob is self-describing: a format version, a unique export ID, a
generation timestamp, the configuration at export time, the lifetime
counters, and every entry with its metadata. Callers decide what to do
with the string; the engine itself never touches disk or network.
*/

const exportVersion = 1

type exportImage struct {
	Version     int            `json:"version"`
	ID          string         `json:"id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Config      exportConfig   `json:"config"`
	Statistics  exportCounters `json:"statistics"`
	Entries     []exportEntry  `json:"entries"`
}

type exportConfig struct {
	MaxSize          int           `json:"max_size"`
	MaxMemory        int64         `json:"max_memory"`
	DefaultTTL       time.Duration `json:"default_ttl"`
	EvictionPolicy   string        `json:"eviction_policy"`
	CleanupInterval  time.Duration `json:"cleanup_interval"`
	EnableStatistics bool          `json:"enable_statistics"`
}

type exportCounters struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Evictions     int64 `json:"evictions"`
	Expirations   int64 `json:"expirations"`
	Invalidations int64 `json:"invalidations"`
}

type exportEntry struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	CreatedAt   time.Time       `json:"created_at"`
	AccessedAt  time.Time       `json:"accessed_at"`
	AccessCount int64           `json:"access_count"`
	TTL         time.Duration   `json:"ttl,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

/*
Export serializes the entry store, the current counters and the
configuration into one JSON blob.

An entry whose value cannot be serialized is logged and skipped rather
than failing the whole export: a partial blob beats no blob for a
component whose contract is to degrade, not to crash.
*/
func (e *Engine) Export() string {
	e.mu.RLock()

	now := e.clk.Now()
	entries := make([]exportEntry, 0, e.store.Len())
	e.store.Range(func(ent *types.CacheEntry) bool {
		raw, err := json.Marshal(ent.Value)
		if err != nil {
			e.log.Warn("export skipped unserializable entry",
				zap.String("key", ent.Key),
				zap.Error(err))
			return true
		}
		entries = append(entries, exportEntry{
			Key:         ent.Key,
			Value:       raw,
			CreatedAt:   ent.CreatedAt,
			AccessedAt:  ent.AccessedAt,
			AccessCount: ent.AccessCount,
			TTL:         ent.TTL,
			Tags:        ent.Tags,
		})
		return true
	})
	cfg := e.cfg
	e.mu.RUnlock()

	snap := e.Statistics()

	img := exportImage{
		Version:     exportVersion,
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Config: exportConfig{
			MaxSize:          cfg.MaxSize,
			MaxMemory:        cfg.MaxMemory,
			DefaultTTL:       cfg.DefaultTTL,
			EvictionPolicy:   string(cfg.EvictionPolicy),
			CleanupInterval:  cfg.CleanupInterval,
			EnableStatistics: cfg.EnableStatistics,
		},
		Statistics: exportCounters{
			Hits:          snap.Hits,
			Misses:        snap.Misses,
			Evictions:     snap.Evictions,
			Expirations:   snap.Expirations,
			Invalidations: snap.Invalidations,
		},
		Entries: entries,
	}

	b, err := json.Marshal(img)
	if err != nil {
		// Unreachable in practice: every value is already RawMessage.
		e.logger().Error("export failed", zap.Error(err))
		return ""
	}
	return string(b)
}

/*
Import restores a previously exported blob into this engine.

The blob is parsed and validated BEFORE anything is cleared, so
malformed input leaves the current contents untouched and simply
returns false. On success the store is cleared, entries are
repopulated with their original metadata, the eviction bookkeeping and
tag index are rebuilt, and the imported counters are merged into the
live ones.

Entry values come back as generic JSON shapes (maps, slices, float64),
the same fidelity the blob itself has.
*/
func (e *Engine) Import(blob string) bool {
	var img exportImage
	if err := json.Unmarshal([]byte(blob), &img); err != nil {
		e.logger().Warn("import rejected, malformed blob", zap.Error(err))
		return false
	}
	if img.Version != exportVersion {
		e.logger().Warn("import rejected, unsupported format version",
			zap.Int("version", img.Version))
		return false
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}

	e.clearLocked()

	for _, ee := range img.Entries {
		var value any
		if err := json.Unmarshal(ee.Value, &value); err != nil {
			e.log.Warn("import skipped undecodable entry",
				zap.String("key", ee.Key),
				zap.Error(err))
			continue
		}

		ent := &types.CacheEntry{
			Key:         ee.Key,
			Value:       value,
			CreatedAt:   ee.CreatedAt,
			AccessedAt:  ee.AccessedAt,
			AccessCount: ee.AccessCount,
			TTL:         ee.TTL,
			Tags:        ee.Tags,
			Size:        int64(2*len(ee.Key) + 2*len(ee.Value) + entryOverheadBytes),
		}
		if ent.TTL > 0 {
			ent.ExpiresAt = ent.CreatedAt.Add(ent.TTL)
		}

		e.store.Put(ent.Key, ent)
		e.tags.Add(ent.Key, ent.Tags)
	}

	e.rebuildPolicyLocked()
	e.mu.Unlock()

	e.collector.Merge(img.Statistics.Hits, img.Statistics.Misses,
		img.Statistics.Evictions, img.Statistics.Expirations, img.Statistics.Invalidations)
	return true
}
