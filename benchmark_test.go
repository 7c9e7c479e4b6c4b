package cache_test

import (
	"fmt"
	"testing"
	"time"

	cache "github.com/pohlai88/aibos-cache"
	"github.com/pohlai88/aibos-cache/eviction"
	"github.com/pohlai88/aibos-cache/types"
)

func newBenchmarkEngine(b *testing.B, policy eviction.PolicyType) *cache.Engine {
	b.Helper()

	e := cache.New(
		cache.WithMaxSize(100000),
		cache.WithDefaultTTL(time.Hour),
		cache.WithEvictionPolicy(policy),
		cache.WithCleanupInterval(0),
	)
	b.Cleanup(e.Close)
	return e
}

func BenchmarkSet(b *testing.B) {
	e := newBenchmarkEngine(b, eviction.LRU)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Set(fmt.Sprintf("k%d", i%100000), i, types.SetOptions{})
	}
}

func BenchmarkGetHit(b *testing.B) {
	e := newBenchmarkEngine(b, eviction.LRU)
	for i := 0; i < 10000; i++ {
		e.Set(fmt.Sprintf("k%d", i), i, types.SetOptions{})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Get(fmt.Sprintf("k%d", i%10000))
	}
}

func BenchmarkGetMiss(b *testing.B) {
	e := newBenchmarkEngine(b, eviction.LRU)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Get(fmt.Sprintf("absent%d", i))
	}
}

func BenchmarkMixedParallel(b *testing.B) {
	e := newBenchmarkEngine(b, eviction.LRU)
	for i := 0; i < 10000; i++ {
		e.Set(fmt.Sprintf("k%d", i), i, types.SetOptions{})
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := fmt.Sprintf("k%d", i%10000)
			if i%10 == 0 {
				e.Set(k, i, types.SetOptions{})
			} else {
				e.Get(k)
			}
			i++
		}
	})
}

func BenchmarkSetWithTags(b *testing.B) {
	e := newBenchmarkEngine(b, eviction.LRU)
	tags := []string{"bench", "grouped"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Set(fmt.Sprintf("k%d", i%100000), i, types.SetOptions{Tags: tags})
	}
}

func BenchmarkEvictionPolicies(b *testing.B) {
	for _, policy := range []eviction.PolicyType{eviction.LRU, eviction.LFU, eviction.FIFO, eviction.Oldest} {
		b.Run(string(policy), func(b *testing.B) {
			e := cache.New(
				cache.WithMaxSize(1000), // small cap to keep eviction hot
				cache.WithDefaultTTL(0),
				cache.WithEvictionPolicy(policy),
				cache.WithCleanupInterval(0),
			)
			b.Cleanup(e.Close)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.Set(fmt.Sprintf("k%d", i), i, types.SetOptions{})
			}
		})
	}
}
