package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/pohlai88/aibos-cache/types"
)

//
// ================= BULK OPERATIONS =================
//

func TestGetManyPreservesOrder(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Set("a", 1, types.SetOptions{})
	e.Set("c", 3, types.SetOptions{})

	values := e.GetMany([]string{"a", "b", "c"})

	require.Equal(t, []any{1, nil, 3}, values)
}

func TestSetManyAndDeleteMany(t *testing.T) {
	e, _ := newTestEngine(t)

	e.SetMany([]types.BulkEntry{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2, Options: types.SetOptions{Tags: []string{"pair"}}},
		{Key: "c", Value: 3},
	})
	require.Equal(t, 3, e.Len())

	n := e.DeleteMany([]string{"a", "b", "nope"})
	require.Equal(t, 2, n, "only existing entries count")
	require.Equal(t, 1, e.Len())
}

//
// ================= GETORSET =================
//

func TestGetOrSetUsesCachedValue(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	e.Set("key", "cached", types.SetOptions{})

	calls := 0
	v, err := e.GetOrSet(ctx, "key", func(ctx context.Context) (any, error) {
		calls++
		return "fresh", nil
	}, types.SetOptions{})

	require.NoError(t, err)
	require.Equal(t, "cached", v)
	require.Zero(t, calls, "factory must not run on a hit")
}

func TestGetOrSetStoresFactoryResult(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	v, err := e.GetOrSet(ctx, "key", func(ctx context.Context) (any, error) {
		return "fresh", nil
	}, types.SetOptions{Tags: []string{"warmed"}})

	require.NoError(t, err)
	require.Equal(t, "fresh", v)
	require.True(t, e.Has("key"))
	require.Equal(t, []string{"key"}, e.KeysByTag("warmed"))
}

func TestGetOrSetColdMissCountsOnce(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	v, err := e.GetOrSet(ctx, "key", func(ctx context.Context) (any, error) {
		return "fresh", nil
	}, types.SetOptions{})

	require.NoError(t, err)
	require.Equal(t, "fresh", v)

	// One logical lookup, one miss: the in-flight re-check must not
	// charge a second one.
	snap := e.Statistics()
	require.EqualValues(t, 1, snap.Misses)
	require.Zero(t, snap.Hits)
}

func TestGetOrSetPropagatesFactoryError(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	boom := errors.New("backend down")
	_, err := e.GetOrSet(ctx, "key", func(ctx context.Context) (any, error) {
		return nil, boom
	}, types.SetOptions{})

	require.ErrorIs(t, err, boom)
	require.False(t, e.Has("key"), "nothing is stored for a failed factory")
}

func TestGetOrSetCollapsesConcurrentMisses(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	var calls, wrong atomic.Int64
	factory := func(ctx context.Context) (any, error) {
		calls.Inc()
		time.Sleep(100 * time.Millisecond) // hold the flight open
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := e.GetOrSet(ctx, "key", factory, types.SetOptions{})
			if err != nil || v != "value" {
				wrong.Inc()
			}
		}()
	}
	wg.Wait()

	require.Zero(t, wrong.Load(), "every caller gets the factory result")
	require.EqualValues(t, 1, calls.Load(), "concurrent misses share one factory run")
}

//
// ================= WARMING =================
//

func TestWarmStoresAllResults(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	e.Warm(ctx, []types.WarmEntry{
		{Key: "w1", Factory: func(ctx context.Context) (any, error) { return 1, nil }},
		{Key: "w2", Factory: func(ctx context.Context) (any, error) { return 2, nil },
			Options: types.SetOptions{Tags: []string{"warm"}}},
	})

	require.True(t, e.Has("w1"))
	require.True(t, e.Has("w2"))
	require.Equal(t, []string{"w2"}, e.KeysByTag("warm"))
}

func TestWarmSwallowsFactoryFailures(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	e.Warm(ctx, []types.WarmEntry{
		{Key: "good", Factory: func(ctx context.Context) (any, error) { return 1, nil }},
		{Key: "bad", Factory: func(ctx context.Context) (any, error) { return nil, errors.New("boom") }},
	})

	require.True(t, e.Has("good"), "one failure must not abort the rest")
	require.False(t, e.Has("bad"))
}
