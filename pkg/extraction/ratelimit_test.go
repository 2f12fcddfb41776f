package extraction

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	ctx := context.Background()
	r := NewRateLimiter(60)

	// A fresh limiter has a full bucket; the first calls should not block.
	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := r.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("burst took %v, expected near-instant", elapsed)
	}
}

func TestRateLimiterBlocksWhenDrained(t *testing.T) {
	r := NewRateLimiter(60)
	r.Drain()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// 60 rpm refills one token per second; the context expires first.
	if err := r.Wait(ctx); err == nil {
		t.Error("Wait on drained bucket should hit the context deadline")
	}
}

func TestRateLimiterRetryAfter(t *testing.T) {
	r := NewRateLimiter(60)
	if got := r.RetryAfter(); got != 0 {
		t.Errorf("RetryAfter on full bucket = %d, want 0", got)
	}

	r.Drain()
	// 60 rpm refills one token per second, so the estimate is about 1s.
	if got := r.RetryAfter(); got < 1 || got > 2 {
		t.Errorf("RetryAfter after drain = %d, want ~1", got)
	}
}

func TestRateLimiterDefault(t *testing.T) {
	r := NewRateLimiter(0)
	if r.requestsPerMinute != defaultRequestsPerMinute {
		t.Errorf("requestsPerMinute = %d, want %d", r.requestsPerMinute, defaultRequestsPerMinute)
	}
}
