package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pohlai88/aibos-cache/types"
)

// This file holds the bulk and warming operations. The multi-key
// variants are deliberately plain loops over the single-key operations:
// each key is independent, and statistics must move exactly as if the
// caller had issued the calls one by one.

// GetMany performs an independent Get per key and returns the results
// in the same order, nil for every miss.
func (e *Engine) GetMany(keys []string) []any {
	values := make([]any, len(keys))
	for i, k := range keys {
		if v, ok := e.Get(k); ok {
			values[i] = v
		}
	}
	return values
}

// SetMany performs an independent Set per entry.
func (e *Engine) SetMany(entries []types.BulkEntry) {
	for _, ent := range entries {
		e.Set(ent.Key, ent.Value, ent.Options)
	}
}

// DeleteMany performs an independent Delete per key and returns how
// many entries actually existed.
func (e *Engine) DeleteMany(keys []string) int {
	n := 0
	for _, k := range keys {
		if e.Delete(k) {
			n++
		}
	}
	return n
}

/*
GetOrSet returns the cached value for a key, or invokes the factory,
stores its result under the given options, and returns it.

Concurrent misses for the same key are collapsed through singleflight:
one goroutine runs the factory, the rest wait and share its result. A
factory failure is the one error this engine propagates as-is; nothing
is stored for a failed factory.
*/
func (e *Engine) GetOrSet(ctx context.Context, key string, factory types.Factory, opts types.SetOptions) (any, error) {
	if v, ok := e.Get(key); ok {
		return v, nil
	}

	v, err, _ := e.sf.Do(key, func() (any, error) {
		// Re-check inside the flight: another caller may have finished
		// the same miss between our Get and joining the group. The
		// outer Get already charged the miss, so this lookup must not
		// charge another.
		if v, ok := e.get(key, false); ok {
			return v, nil
		}

		v, err := factory(ctx)
		if err != nil {
			return nil, err
		}

		e.Set(key, v, opts)
		return v, nil
	})
	return v, err
}

/*
Warm preloads the cache by running every entry's factory concurrently
and storing the results.

Warming is best-effort by contract: a failing factory is logged and
skipped, it never aborts the other entries and never surfaces to the
caller. A partial warm is still a successful warm.
*/
func (e *Engine) Warm(ctx context.Context, entries []types.WarmEntry) {
	var wg sync.WaitGroup
	log := e.logger()

	for _, we := range entries {
		wg.Add(1)
		go func(we types.WarmEntry) {
			defer wg.Done()

			v, err := we.Factory(ctx)
			if err != nil {
				log.Warn("cache warm factory failed",
					zap.String("key", we.Key),
					zap.Error(err))
				return
			}
			e.Set(we.Key, v, we.Options)
		}(we)
	}

	wg.Wait()
}
