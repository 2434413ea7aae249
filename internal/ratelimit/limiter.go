// Package ratelimit bounds the frequency of outbound generative-AI calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a sliding-window request throttle: at most maxRequests
// acquisitions are allowed per window. When the window is full, Acquire
// blocks until the oldest request leaves the window. Ordering is
// first-requester-blocks-next-requester only; there is no fairness queue and
// no coordination across processes, so this is an advisory throttle, not a
// cost-control boundary.
type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	requests    []time.Time
}

// New returns a Limiter allowing maxRequests per window.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
	}
}

// Acquire blocks until a request slot is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		wait, ok := l.tryAcquire()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire purges expired timestamps and either records a new request or
// reports how long to wait for the oldest one to expire.
func (l *Limiter) tryAcquire() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	kept := l.requests[:0]
	for _, ts := range l.requests {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}
	l.requests = kept

	if len(l.requests) < l.maxRequests {
		l.requests = append(l.requests, now)
		return 0, true
	}

	return l.window - now.Sub(l.requests[0]), false
}
