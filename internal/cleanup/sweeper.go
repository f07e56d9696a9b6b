// Package cleanup runs the periodic sweep that removes expired ledger
// entries.  The sweep has no correctness dependency on exact timing (the
// codec rejects expired tokens regardless); it only bounds blacklist growth
// and the replay-detection window, so it is safe to skip, delay, or cancel
// mid-pass.
package cleanup

import (
	"context"
	"log"
	"time"
)

// Ledger is the single ledger operation the sweeper drives.
type Ledger interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically purges lapsed active and blacklisted tokens.
type Sweeper struct {
	Ledger   Ledger
	Interval time.Duration // time between passes
	Timeout  time.Duration // per-pass deadline; 0 means no deadline
}

func NewSweeper(l Ledger, interval time.Duration) *Sweeper {
	return &Sweeper{Ledger: l, Interval: interval, Timeout: 30 * time.Second}
}

// Run sweeps once immediately and then on every tick until ctx is
// cancelled.  Errors are logged and the loop keeps going; deletions are
// idempotent so an aborted pass leaves nothing to repair.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("token-sweeper: stopping: %v", ctx.Err())
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	n, err := s.Ledger.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("token-sweeper: sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("token-sweeper: removed %d expired token rows", n)
	}
}
