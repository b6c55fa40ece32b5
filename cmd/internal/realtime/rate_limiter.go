package realtime

import (
	"sync"
	"time"
)

// RateLimiter caps how many envelopes one connection may submit inside a
// sliding window. Normal play is one move per turn, so the budget is
// generous; a sustained burst is a misbehaving client, not a fast player.
type RateLimiter struct {
	mu     sync.Mutex
	stamps []time.Time // accepted submissions, oldest first
	budget int
	window time.Duration
}

// NewRateLimiter constructs a RateLimiter. Non-positive inputs select the
// gateway defaults.
func NewRateLimiter(budget int, window time.Duration) *RateLimiter {
	if budget <= 0 {
		budget = rateLimitEvents
	}
	if window <= 0 {
		window = rateLimitWindow
	}
	return &RateLimiter{
		stamps: make([]time.Time, 0, budget),
		budget: budget,
		window: window,
	}
}

// Allow reports whether a submission at time "now" fits the budget, and
// records it if so.
func (r *RateLimiter) Allow(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	// stamps is append-only and ordered, so expired entries form a prefix.
	cut := now.Add(-r.window)
	expired := 0
	for expired < len(r.stamps) && !r.stamps[expired].After(cut) {
		expired++
	}
	if expired > 0 {
		r.stamps = append(r.stamps[:0], r.stamps[expired:]...)
	}

	if len(r.stamps) >= r.budget {
		return false
	}
	r.stamps = append(r.stamps, now)
	return true
}
