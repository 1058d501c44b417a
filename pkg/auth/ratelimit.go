package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter checks whether an attempt identified by key should be
// allowed. The login flow uses it to throttle repeated attempts per
// principal name.
type RateLimiter interface {
	Allow(ctx context.Context, key string) error
}

// InProcessLimiter is a fixed-window rate limiter that tracks attempt
// counts per key in memory. Each key's window starts at its first
// attempt and resets a minute later; stale entries are swept
// periodically so idle keys don't accumulate.
type InProcessLimiter struct {
	perMinute int
	mu        sync.Mutex
	counters  map[string]*counter
	lastSweep time.Time
}

type counter struct {
	count    int
	windowAt time.Time
}

// NewInProcessLimiter creates a rate limiter allowing perMinute attempts
// per key. A non-positive perMinute disables limiting.
func NewInProcessLimiter(perMinute int) *InProcessLimiter {
	return &InProcessLimiter{
		perMinute: perMinute,
		counters:  make(map[string]*counter),
		lastSweep: time.Now(),
	}
}

// Allow checks if the attempt is within the rate limit.
func (l *InProcessLimiter) Allow(_ context.Context, key string) error {
	if l.perMinute <= 0 {
		return nil // no limit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	c, ok := l.counters[key]
	if !ok || now.Sub(c.windowAt) >= time.Minute {
		// New window.
		l.counters[key] = &counter{count: 1, windowAt: now}
		return nil
	}

	c.count++
	if c.count > l.perMinute {
		return ErrTooManyRequests
	}

	return nil
}

// sweep drops counters whose window has ended. Runs at most once per
// minute; callers hold the lock.
func (l *InProcessLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now

	for key, c := range l.counters {
		if now.Sub(c.windowAt) >= time.Minute {
			delete(l.counters, key)
		}
	}
}
