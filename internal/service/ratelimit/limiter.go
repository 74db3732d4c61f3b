package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles outbound provider calls to a configured rate, shared
// across all concurrent callers.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter granting callsPerSecond acquisitions per second with
// no burst beyond a single call.
func New(callsPerSecond float64) *Limiter {
	if callsPerSecond <= 0 {
		callsPerSecond = 2
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(callsPerSecond), 1),
	}
}

// Acquire blocks until the next call slot is available or the context is
// cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
