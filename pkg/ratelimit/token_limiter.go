package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenLimiter enforces a token budget per rolling minute, the way hosted
// model providers meter usage.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
	now         func() time.Time
}

// NewTokenLimiter creates a limiter allowing maxPerMinute tokens per minute.
// A non-positive budget disables limiting.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMinute,
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// Wait blocks until n tokens fit in the current window or ctx is done.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	if l.maxPerMin <= 0 {
		return nil
	}
	if n > l.maxPerMin {
		return fmt.Errorf("request of %d tokens exceeds the per-minute budget of %d", n, l.maxPerMin)
	}

	for {
		l.mu.Lock()
		now := l.now()
		if now.Sub(l.windowStart) >= time.Minute {
			l.windowStart = now
			l.used = 0
		}
		if l.used+n <= l.maxPerMin {
			l.used += n
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.maxPerMin <= 0 {
		return 0
	}
	if l.now().Sub(l.windowStart) >= time.Minute {
		return l.maxPerMin
	}
	return l.maxPerMin - l.used
}
