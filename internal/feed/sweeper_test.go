package feed

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweeperTicksUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	var gotTTL atomic.Int64
	sw := NewSweeper(5*time.Millisecond, 42*time.Second, func(ttl time.Duration, _ time.Time) int {
		calls.Add(1)
		gotTTL.Store(int64(ttl))
		return 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sw.Run(ctx)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 },
		time.Second, time.Millisecond, "sweeper never ticked")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancellation")
	}

	assert.Equal(t, int64(42*time.Second), gotTTL.Load())
}

func TestNewSweeperDefaults(t *testing.T) {
	sw := NewSweeper(0, 0, func(time.Duration, time.Time) int { return 0 })
	assert.Equal(t, DefaultSweepInterval, sw.interval)
	assert.Equal(t, DefaultTTL, sw.ttl)
}
