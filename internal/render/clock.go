package render

import (
	"context"
	"time"
)

// Clock paces the frame loop. The loop suspends once per frame so wall-clock
// time advances roughly in lockstep with what the encoder consumes; tests
// substitute an instant clock for deterministic, fast renders.
type Clock interface {
	Wait(ctx context.Context) error
}

// TickerClock waits approximately 1000/fps ms per frame.
type TickerClock struct {
	interval time.Duration
}

func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = 30
	}
	return &TickerClock{interval: time.Second / time.Duration(fps)}
}

func (c *TickerClock) Wait(ctx context.Context) error {
	timer := time.NewTimer(c.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// InstantClock never sleeps; it only honors cancellation. Used when the sink
// consumes discrete frames (offline encode) and in tests.
type InstantClock struct{}

func (InstantClock) Wait(ctx context.Context) error {
	return ctx.Err()
}
