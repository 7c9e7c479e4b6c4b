package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	cache "github.com/pohlai88/aibos-cache"
	"github.com/pohlai88/aibos-cache/eviction"
	"github.com/pohlai88/aibos-cache/types"
)

// Small walkthrough of the engine's surface: core operations, TTL,
// tags, eviction, singleflight loading, warming, export/import and
// health reporting.

func main() {
	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	engine := cache.New(
		cache.WithMaxSize(20),
		cache.WithDefaultTTL(time.Minute),
		cache.WithEvictionPolicy(eviction.LRU),
		cache.WithCleanupInterval(5*time.Second),
		cache.WithLogger(logger),
	)
	defer engine.Close()

	fmt.Println("EVICTION POLICY : LRU")
	fmt.Println("CAPACITY        : 20 keys")
	fmt.Println("DEFAULT TTL     : 1m")
	fmt.Println("CLEANUP         : every 5s")

	// ====================================================
	fmt.Println("\n==================== 1) SET / GET ====================")

	engine.Set("a", "alpha", types.SetOptions{})
	v, ok := engine.Get("a")
	fmt.Println("CACHE  → GET a =", v, ok)

	_, ok = engine.Get("missing")
	fmt.Println("CACHE  → GET missing =", ok)

	// ====================================================
	fmt.Println("\n==================== 2) TTL EXPIRY ====================")

	engine.Set("x", "temp-value", types.SetOptions{TTL: time.Second})
	fmt.Println("CACHE  → SET x (TTL = 1s)")

	time.Sleep(1500 * time.Millisecond)

	_, ok = engine.Get("x")
	fmt.Println("CACHE  → GET x after TTL =", ok)

	// ====================================================
	fmt.Println("\n==================== 3) TAG INVALIDATION ====================")

	engine.Set("user:1", "alice", types.SetOptions{Tags: []string{"users"}})
	engine.Set("user:2", "bob", types.SetOptions{Tags: []string{"users", "admins"}})
	engine.Set("order:1", "book", types.SetOptions{Tags: []string{"orders"}})

	fmt.Println("KEYS under 'users' :", engine.KeysByTag("users"))
	n := engine.InvalidateByTag("users")
	fmt.Println("CACHE  → invalidated", n, "entries under 'users'")
	fmt.Println("CACHE  → HAS order:1 =", engine.Has("order:1"))

	// ====================================================
	fmt.Println("\n==================== 4) GETORSET (SINGLEFLIGHT) ====================")

	factory := func(ctx context.Context) (any, error) {
		fmt.Println("FACTORY → computing value for 'b'")
		return "beta", nil
	}

	for i := 0; i < 3; i++ {
		v, _ := engine.GetOrSet(ctx, "b", factory, types.SetOptions{})
		fmt.Printf("CACHE  → GETORSET b = %v\n", v)
	}

	// ====================================================
	fmt.Println("\n==================== 5) WARMING ====================")

	engine.Warm(ctx, []types.WarmEntry{
		{Key: "w1", Factory: func(ctx context.Context) (any, error) { return 1, nil }},
		{Key: "w2", Factory: func(ctx context.Context) (any, error) { return 2, nil }},
		{Key: "w3", Factory: func(ctx context.Context) (any, error) { return nil, fmt.Errorf("boom") }},
	})
	fmt.Println("CACHE  → warmed, HAS w1 =", engine.Has("w1"), ", HAS w3 =", engine.Has("w3"))

	// ====================================================
	fmt.Println("\n==================== 6) EVICTION ====================")

	for i := 0; i < 50; i++ {
		engine.Set(fmt.Sprintf("k%d", i), i, types.SetOptions{})
	}
	fmt.Println("CACHE  → entries after 50 inserts into cap-20 cache:", engine.Len())

	// ====================================================
	fmt.Println("\n==================== 7) EXPORT / IMPORT ====================")

	blob := engine.Export()
	fmt.Println("EXPORT → blob bytes:", len(blob))

	restored := cache.New(cache.WithMaxSize(100))
	defer restored.Close()

	fmt.Println("IMPORT → ok:", restored.Import(blob), ", entries:", restored.Len())

	// ====================================================
	fmt.Println("\n==================== 8) STATISTICS & HEALTH ====================")

	snap := engine.Statistics()
	fmt.Printf("HITS      : %d\n", snap.Hits)
	fmt.Printf("MISSES    : %d\n", snap.Misses)
	fmt.Printf("HIT RATE  : %.2f\n", snap.HitRate)
	fmt.Printf("EVICTIONS : %d\n", snap.Evictions)
	fmt.Printf("MEMORY    : %d bytes (estimated)\n", snap.MemoryBytes)

	health := engine.Health()
	fmt.Println("STATUS    :", health.Status)
	for _, issue := range health.Issues {
		fmt.Println("  -", issue.Problem)
		fmt.Println("    recommendation:", issue.Recommendation)
	}

	fmt.Println("\n==================== SHUTDOWN ====================")
	fmt.Println("SYSTEM → cache closed cleanly")
}
