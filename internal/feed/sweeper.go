package feed

import (
	"context"
	"time"
)

// Default sweep cadence and item lifetime.
const (
	DefaultSweepInterval = 5 * time.Second
	DefaultTTL           = 60 * time.Second
)

// SweepFunc prunes expired items at now and returns how many were removed.
// The hub's Sweep satisfies this.
type SweepFunc func(ttl time.Duration, now time.Time) int

// Sweeper drives periodic TTL passes. It holds no state of its own — the
// store stays behind the hub's mutation gate and is only touched through
// the sweep function.
type Sweeper struct {
	interval time.Duration
	ttl      time.Duration
	sweep    SweepFunc
}

// NewSweeper returns a Sweeper ticking every interval with the given ttl.
// Zero values fall back to the defaults.
func NewSweeper(interval, ttl time.Duration, sweep SweepFunc) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sweeper{interval: interval, ttl: ttl, sweep: sweep}
}

// Run blocks, sweeping once per tick until ctx is cancelled.
// Call in a goroutine.
func (sw *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(sw.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sw.sweep(sw.ttl, time.Now())
		}
	}
}
