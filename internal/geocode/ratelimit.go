package geocode

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// RateLimiter throttles outbound geocoding calls to at most limit calls per
// rolling window. A single instance is shared by all concurrent searches.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	clock  clockwork.Clock
	calls  []time.Time
}

// NewRateLimiter creates a limiter allowing limit calls per window.
// A nil clock selects the real clock.
func NewRateLimiter(limit int, window time.Duration, clk clockwork.Clock) *RateLimiter {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		clock:  clk,
	}
}

// Acquire blocks until a call slot is free or the context is cancelled.
// Call timestamps older than the window are discarded; when the window is
// full, the caller sleeps until the oldest remaining timestamp ages out.
// The only error returned is the context's.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.clock.Now()
		cutoff := now.Add(-l.window)
		i := 0
		for i < len(l.calls) && !l.calls[i].After(cutoff) {
			i++
		}
		l.calls = l.calls[i:]

		if len(l.calls) < l.limit {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}

		wait := l.window - now.Sub(l.calls[0])
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := l.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.Chan():
		}
	}
}
