package traveltime

import (
	"context"
	"sync"
)

// DefaultMaxConcurrentRequests is the number of Distance Matrix chunks
// fetched in parallel when none is configured.
const DefaultMaxConcurrentRequests = 4

// requestLimiter bounds in-flight Distance Matrix requests using a semaphore.
type requestLimiter struct {
	semaphore chan struct{}

	mu     sync.Mutex
	active int
}

func newRequestLimiter(maxConcurrent int) *requestLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRequests
	}
	return &requestLimiter{semaphore: make(chan struct{}, maxConcurrent)}
}

// Acquire blocks until a slot is free or ctx is done.
// The caller must call Release after a successful Acquire.
func (l *requestLimiter) Acquire(ctx context.Context) error {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *requestLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.semaphore
}

// ActiveCount returns the number of requests currently holding a slot.
func (l *requestLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *requestLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}
