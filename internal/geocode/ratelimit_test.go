package geocode

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_UnderLimitDoesNotBlock(t *testing.T) {
	l := NewRateLimiter(10, time.Second, nil)

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond, "calls within the limit must not wait")
}

func TestRateLimiter_OverLimitSuspendsBounded(t *testing.T) {
	window := 200 * time.Millisecond
	l := NewRateLimiter(10, window, nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}

	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	elapsed := time.Since(start)

	assert.Greater(t, elapsed, time.Duration(0), "11th call must suspend")
	assert.Less(t, elapsed, window+100*time.Millisecond, "wait must be bounded by the window")
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	window := 50 * time.Millisecond
	l := NewRateLimiter(2, window, nil)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	time.Sleep(window + 10*time.Millisecond)

	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	assert.Less(t, time.Since(start), 20*time.Millisecond, "expired timestamps must free slots")
}

func TestRateLimiter_ContextCancellation(t *testing.T) {
	l := NewRateLimiter(1, time.Minute, nil)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_ConcurrentAcquire(t *testing.T) {
	l := NewRateLimiter(5, 50*time.Millisecond, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("concurrent acquires did not all complete")
	}
}
