package cache

import (
	"context"
	"testing"

	"github.com/gitreq/gitreq/internal/testutil"
)

// newTestCache connects to the Redis named by REDIS_URL and flushes it.
// Tests are skipped when the variable is unset.
func newTestCache(t *testing.T, ctx context.Context) *Cache {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.client); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return c
}

func TestCheckAuthRateLimitAllowsWithinBurst(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, ctx)

	for i := 0; i < 5; i++ {
		result, err := c.CheckAuthRateLimit(ctx, "203.0.113.7", 60, 5)
		if err != nil {
			t.Fatalf("rate limit check %d: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
}

func TestCheckAuthRateLimitBlocksPastBurst(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, ctx)

	// 1 request per minute with burst 2: the third hit must be rejected.
	for i := 0; i < 2; i++ {
		result, err := c.CheckAuthRateLimit(ctx, "203.0.113.8", 1, 2)
		if err != nil {
			t.Fatalf("rate limit check %d: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}

	result, err := c.CheckAuthRateLimit(ctx, "203.0.113.8", 1, 2)
	if err != nil {
		t.Fatalf("rate limit check: %v", err)
	}
	if result.Allowed {
		t.Fatalf("request past burst should be blocked")
	}
	if result.RetryAfter <= 0 {
		t.Fatalf("expected a positive retry-after, got %v", result.RetryAfter)
	}
}

func TestCheckAuthRateLimitIsolatesClients(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, ctx)

	// Exhaust one client.
	for i := 0; i < 3; i++ {
		_, _ = c.CheckAuthRateLimit(ctx, "203.0.113.9", 1, 2)
	}

	// A different client is unaffected.
	result, err := c.CheckAuthRateLimit(ctx, "198.51.100.4", 1, 2)
	if err != nil {
		t.Fatalf("rate limit check: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("a different client must have its own bucket")
	}
}
