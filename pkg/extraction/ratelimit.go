package extraction

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/geosect/geosect/pkg/observability"
)

// defaultRequestsPerMinute is conservative enough for entry-tier vision API
// quotas.
const defaultRequestsPerMinute = 30

// RateLimiter is a token bucket that paces oracle calls client-side so a
// multi-page document does not trip the provider's quota.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	tokens            float64
	lastRefill        time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute calls per
// minute. Non-positive values fall back to the default.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		tokens:            float64(requestsPerMinute),
		lastRefill:        time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens >= 1.0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		needed := 1.0 - r.tokens
		perSecond := float64(r.requestsPerMinute) / 60.0
		wait := time.Duration(needed / perSecond * float64(time.Second))
		r.mu.Unlock()

		observability.Oracle().OnRateLimited(ctx, "openai", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// RetryAfter reports how many whole seconds until the bucket next has a
// token. It populates rate-limit errors after the provider answers 429.
func (r *RateLimiter) RetryAfter() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	if r.tokens >= 1.0 {
		return 0
	}
	needed := 1.0 - r.tokens
	perSecond := float64(r.requestsPerMinute) / 60.0
	return int(math.Ceil(needed / perSecond))
}

// Drain empties the bucket. Called after the provider answers 429 so the
// limiter backs off for a full refill interval.
func (r *RateLimiter) Drain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = 0
	r.lastRefill = time.Now()
}

// refill credits tokens for elapsed time. Caller holds the lock.
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.tokens += elapsed * float64(r.requestsPerMinute) / 60.0
	if max := float64(r.requestsPerMinute); r.tokens > max {
		r.tokens = max
	}
	r.lastRefill = now
}
