package traveltime

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLimiter_Defaults(t *testing.T) {
	assert.Equal(t, DefaultMaxConcurrentRequests, newRequestLimiter(0).MaxConcurrent())
	assert.Equal(t, 2, newRequestLimiter(2).MaxConcurrent())
}

func TestRequestLimiter_AcquireRelease(t *testing.T) {
	l := newRequestLimiter(2)
	ctx := context.Background()

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 2, l.ActiveCount())

	l.Release()
	assert.Equal(t, 1, l.ActiveCount())
	l.Release()
	assert.Equal(t, 0, l.ActiveCount())
}

func TestRequestLimiter_ContextCancelled(t *testing.T) {
	l := newRequestLimiter(1)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.ActiveCount())
}

func TestRequestLimiter_BoundsConcurrency(t *testing.T) {
	l := newRequestLimiter(3)
	var current, peak atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, l.Acquire(context.Background())) {
				return
			}
			defer l.Release()
			n := current.Add(1)
			storeMax(&peak, n)
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, 0, l.ActiveCount())
}

// storeMax raises v to n when n is larger.
func storeMax(v *atomic.Int32, n int32) {
	for {
		cur := v.Load()
		if n <= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}
