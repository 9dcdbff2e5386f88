package audit

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrSubmissionInFlight = errors.New("audit: a submission is already in progress")

// Guard wraps a Submitter so that overlapping submissions are controlled.
//
// Submit rejects a call while another one is running (single-user mode).
// Shared lets concurrent callers with the same URL share one backend call.
type Guard struct {
	// SharedTimeout bounds a shared backend call, which outlives the
	// cancellation of any single caller. Zero means no bound.
	SharedTimeout time.Duration

	next   Submitter
	busy   atomic.Bool
	flight singleflight.Group
}

func NewGuard(next Submitter) *Guard {
	return &Guard{next: next}
}

func (g *Guard) Submit(ctx context.Context, target string) (*Report, error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer g.busy.Store(false)
	return g.next.Submit(ctx, target)
}

// InFlight reports whether a Submit call is currently running.
func (g *Guard) InFlight() bool {
	return g.busy.Load()
}

// Shared deduplicates concurrent submissions of the same URL. The returned
// bool is true when the result was shared with another caller.
//
// The backend call is detached from the caller that started it, so one
// caller giving up does not fail the others; each caller stops waiting when
// its own ctx is done.
func (g *Guard) Shared(ctx context.Context, target string) (*Report, bool, error) {
	key := strings.TrimSpace(target)
	ch := g.flight.DoChan(key, func() (interface{}, error) {
		callCtx := context.WithoutCancel(ctx)
		if g.SharedTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, g.SharedTimeout)
			defer cancel()
		}
		return g.next.Submit(callCtx, key)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(*Report), res.Shared, nil
	}
}
