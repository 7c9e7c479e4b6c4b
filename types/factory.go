package types

import "context"

/*
Factory is the contract between the cache and whatever produces values
on a miss.

	1. Caller asks for a key via GetOrSet
	2. Cache checks memory → key not found
	3. Cache invokes the Factory
	4. Factory computes/fetches the value (DB, API, computation, ...)
	5. Cache stores the result in memory and returns it

The cache never talks to a backing store directly. The Factory is the
only bridge to the outside world, and it is supplied per call, not
configured on the engine.
*/
type Factory func(ctx context.Context) (any, error)

// WarmEntry describes one key to preload during cache warming.
// Factories for different entries run concurrently; a failing factory
// is logged and skipped, it never aborts the rest of the warm-up.
type WarmEntry struct {
	Key     string
	Factory Factory
	Options SetOptions
}
