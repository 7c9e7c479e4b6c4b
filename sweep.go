package cache

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/pohlai88/aibos-cache/types"
)

/*
This file owns the cleanup sweeper: a background goroutine that
periodically removes expired entries.

Lazy expiry on access is not enough by itself. A key that is written
once and never read again would sit in memory forever; the sweeper is
what reclaims it. The goroutine is owned by the engine: started in New,
restarted by Configure when the interval changes, stopped by Close.
*/

// startSweeperLocked launches the sweep goroutine. An interval <= 0
// disables proactive cleanup entirely. The ticker is created here, not
// inside the goroutine, so it is registered with the clock before this
// returns; a mock clock advanced right after Configure still reaches
// it. Callers hold e.lifeMu.
func (e *Engine) startSweeperLocked(interval time.Duration) {
	if interval <= 0 {
		return
	}

	stop := make(chan struct{})
	e.sweepStop = stop

	t := e.timeSource().Ticker(interval)

	e.sweepWG.Add(1)
	go e.runSweeper(t, stop)
}

// stopSweeperLocked signals the sweep goroutine and waits for it to
// drain. Callers hold e.lifeMu but never e.mu: the goroutine may be
// mid-sweep waiting on e.mu, and waiting for it while holding that
// lock would deadlock.
func (e *Engine) stopSweeperLocked() {
	if e.sweepStop == nil {
		return
	}
	close(e.sweepStop)
	e.sweepStop = nil
	e.sweepWG.Wait()
}

func (e *Engine) runSweeper(t *clock.Ticker, stop chan struct{}) {
	defer e.sweepWG.Done()
	defer t.Stop()

	log := e.logger()

	for {
		select {
		case <-t.C:
			if n := e.Sweep(); n > 0 {
				log.Debug("cleanup sweep removed expired entries",
					zap.Int("count", n))
			}
		case <-stop:
			return
		}
	}
}

// Sweep scans the whole store once and deletes every expired entry,
// returning how many were removed. The background sweeper calls this
// on every tick; callers may also invoke it directly to force a sweep.
func (e *Engine) Sweep() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clk.Now()

	var expired []*types.CacheEntry
	e.store.Range(func(ent *types.CacheEntry) bool {
		if ent.Expired(now) {
			expired = append(expired, ent)
		}
		return true
	})

	for _, ent := range expired {
		e.removeLocked(ent)
		e.collector.Expire()
		e.metrics.Expire()
	}
	return len(expired)
}
