package game

import (
	"context"
	"time"
)

// countdown fires tick once per interval until stopped. Each countdown
// carries the session generation it was started for; the engine ignores
// ticks whose generation is stale, so a tick racing with Stop is harmless.
type countdown struct {
	cancel context.CancelFunc
}

func startCountdown(interval time.Duration, gen uint64, tick func(gen uint64)) *countdown {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				tick(gen)
			}
		}
	}()
	return &countdown{cancel: cancel}
}

// Stop cancels the countdown. Safe to call more than once and on nil.
func (c *countdown) Stop() {
	if c == nil {
		return
	}
	c.cancel()
}
