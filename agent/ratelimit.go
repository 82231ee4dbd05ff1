package agent

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter bounds inbound generation requests per caller identity. Each
// caller gets a token bucket enforcing a minimum inter-request interval;
// inactive callers are evicted after the TTL. It is an injected service
// instance, not ambient process state, and is not persisted across restarts:
// it bounds abuse, not correctness.
type RateLimiter struct {
	mu       sync.Mutex
	callers  *cache.Cache
	interval time.Duration
	burst    int
}

// NewRateLimiter creates a limiter granting one request per minInterval with
// the given burst per caller. Caller entries expire after ttl of inactivity.
func NewRateLimiter(minInterval time.Duration, burst int, ttl time.Duration) *RateLimiter {
	if minInterval <= 0 {
		minInterval = 12 * time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		callers:  cache.New(ttl, 2*ttl),
		interval: minInterval,
		burst:    burst,
	}
}

// Allow reports whether the caller may proceed now. Each call refreshes the
// caller's TTL so active callers keep their bucket state.
func (r *RateLimiter) Allow(caller string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := r.callers.Get(caller); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Every(r.interval), r.burst)
	}
	r.callers.Set(caller, limiter, cache.DefaultExpiration)

	return limiter.Allow()
}
