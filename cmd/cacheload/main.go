package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	cache "github.com/pohlai88/aibos-cache"
	"github.com/pohlai88/aibos-cache/eviction"
	"github.com/pohlai88/aibos-cache/types"
)

// Concurrent load generator for eyeballing throughput and hit ratio
// under a skewed read-mostly workload.

func main() {
	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	const (
		capacity    = 200000
		preloadKeys = 100000
		goroutines  = 200
		opsPerG     = 5000
		readRatio   = 0.9
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Preload Keys :", preloadKeys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/G        :", opsPerG)
	fmt.Println("Read Ratio   :", readRatio)

	engine := cache.New(
		cache.WithMaxSize(capacity),
		cache.WithEvictionPolicy(eviction.LRU),
		cache.WithDefaultTTL(0),
		cache.WithCleanupInterval(time.Second),
	)
	defer engine.Close()

	for i := 0; i < preloadKeys; i++ {
		engine.Set(fmt.Sprintf("k%d", i), i, types.SetOptions{})
	}

	start := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))

			for i := 0; i < opsPerG; i++ {
				// Zipf-ish skew: most traffic lands on a hot subset.
				k := fmt.Sprintf("k%d", rng.Intn(preloadKeys/10))
				if rng.Float64() < readRatio {
					engine.Get(k)
				} else {
					engine.Set(k, i, types.SetOptions{})
				}
			}
		}(int64(g))
	}
	wg.Wait()

	elapsed := time.Since(start)
	totalOps := goroutines * opsPerG
	snap := engine.Statistics()

	fmt.Println("\nRESULT")
	fmt.Println("---------------------------------")
	fmt.Println("Elapsed      :", elapsed)
	fmt.Printf("Throughput   : %.0f ops/sec\n", float64(totalOps)/elapsed.Seconds())
	fmt.Printf("Hit Rate     : %.2f\n", snap.HitRate)
	fmt.Println("Entries      :", snap.Entries)
	fmt.Println("Evictions    :", snap.Evictions)
}
