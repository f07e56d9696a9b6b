package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingLedger struct {
	calls atomic.Int64
	err   error
}

func (c *countingLedger) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	c.calls.Add(1)
	if c.err != nil {
		return 0, c.err
	}
	return 3, nil
}

func TestRunSweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	l := &countingLedger{}
	s := NewSweeper(l, time.Hour) // interval never fires during the test

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// The first pass happens before the first tick.
	assert.Eventually(t, func() bool { return l.calls.Load() == 1 },
		time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestRunTicks(t *testing.T) {
	l := &countingLedger{}
	s := NewSweeper(l, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	assert.Eventually(t, func() bool { return l.calls.Load() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestRunSurvivesSweepErrors(t *testing.T) {
	l := &countingLedger{err: errors.New("db gone")}
	s := NewSweeper(l, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// The loop keeps ticking even though every pass fails.
	assert.Eventually(t, func() bool { return l.calls.Load() >= 3 },
		time.Second, 5*time.Millisecond)
}
