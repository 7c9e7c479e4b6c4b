package cache_test

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	cache "github.com/pohlai88/aibos-cache"
	"github.com/pohlai88/aibos-cache/types"
)

//
// ================= EXPORT / IMPORT =================
//

func TestExportImportRoundTrip(t *testing.T) {
	mock := clock.NewMock()

	src, _ := newTestEngine(t, cache.WithClock(mock))

	src.Set("a", "alpha", types.SetOptions{Tags: []string{"letters"}})
	src.Set("b", "beta", types.SetOptions{TTL: time.Hour})
	src.Get("a")       // hit
	src.Get("missing") // miss

	src.Set("tmp", 1, types.SetOptions{Tags: []string{"tmp"}})
	src.InvalidateByTag("tmp") // invalidation

	src.Set("gone", 1, types.SetOptions{TTL: time.Second})
	mock.Add(2 * time.Second)
	src.Get("gone") // expiration, and a second miss

	blob := src.Export()
	require.NotEmpty(t, blob)
	require.True(t, strings.HasPrefix(blob, "{"), "export is one JSON text blob")

	dst, _ := newTestEngine(t, cache.WithClock(mock))
	require.True(t, dst.Import(blob))

	// Same set of live keys.
	require.ElementsMatch(t, src.Keys(), dst.Keys())
	require.True(t, dst.Has("a"))
	require.True(t, dst.Has("b"))

	// Tag index rebuilt from the imported entries.
	require.Equal(t, []string{"a"}, dst.KeysByTag("letters"))

	// Counters merged into the fresh instance, every family included.
	snap := dst.Statistics()
	require.EqualValues(t, 1, snap.Hits)
	require.EqualValues(t, 2, snap.Misses)
	require.EqualValues(t, 1, snap.Expirations)
	require.EqualValues(t, 1, snap.Invalidations)

	// Values survive with JSON fidelity.
	v, ok := dst.Get("a")
	require.True(t, ok)
	require.Equal(t, "alpha", v)
}

func TestImportPreservesTTLClock(t *testing.T) {
	mock := clock.NewMock()

	src, _ := newTestEngine(t, cache.WithClock(mock))
	src.Set("short", 1, types.SetOptions{TTL: time.Minute})

	blob := src.Export()

	dst, _ := newTestEngine(t, cache.WithClock(mock))
	require.True(t, dst.Import(blob))

	// Expiry keeps counting from the original creation time.
	mock.Add(2 * time.Minute)
	require.False(t, dst.Has("short"))
}

func TestImportRejectsMalformedBlob(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Set("keep-me", 1, types.SetOptions{})

	require.False(t, e.Import("{not json"))
	require.False(t, e.Import(`{"version": 99, "entries": []}`))

	// Rejected input must leave the current contents alone.
	require.True(t, e.Has("keep-me"))
}

func TestImportReplacesExistingContents(t *testing.T) {
	src, _ := newTestEngine(t)
	src.Set("new", 1, types.SetOptions{})
	blob := src.Export()

	dst, _ := newTestEngine(t)
	dst.Set("old", 1, types.SetOptions{})

	require.True(t, dst.Import(blob))

	require.False(t, dst.Has("old"), "import starts from a cleared store")
	require.True(t, dst.Has("new"))
}

func TestImportRebuildsEvictionOrder(t *testing.T) {
	mock := clock.NewMock()

	src, _ := newTestEngine(t, cache.WithClock(mock), cache.WithMaxSize(3))
	src.Set("a", 1, types.SetOptions{})
	mock.Add(time.Second)
	src.Set("b", 2, types.SetOptions{})
	mock.Add(time.Second)
	src.Set("c", 3, types.SetOptions{})
	mock.Add(time.Second)
	src.Get("a") // a becomes most recently used

	dst, _ := newTestEngine(t, cache.WithClock(mock), cache.WithMaxSize(3))
	require.True(t, dst.Import(src.Export()))

	// With recency rebuilt, the LRU victim is b, not a.
	dst.Set("d", 4, types.SetOptions{})
	require.True(t, dst.Has("a"))
	require.False(t, dst.Has("b"))
}
