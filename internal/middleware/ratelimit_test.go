package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	r := &InMemoryRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    3,
		window:   time.Minute,
	}
	now := time.Unix(1700000000, 0)
	for i := 0; i < 3; i++ {
		allowed, _ := r.allowAt("203.0.113.5", now)
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	allowed, retry := r.allowAt("203.0.113.5", now)
	if allowed {
		t.Fatal("fourth request inside the window should be rejected")
	}
	if retry <= 0 || retry > time.Minute {
		t.Fatalf("unexpected retry-after %v", retry)
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	r := &InMemoryRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    1,
		window:   time.Minute,
	}
	now := time.Unix(1700000000, 0)
	if allowed, _ := r.allowAt("k", now); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := r.allowAt("k", now.Add(30*time.Second)); allowed {
		t.Fatal("second request inside the window should be rejected")
	}
	if allowed, _ := r.allowAt("k", now.Add(61*time.Second)); !allowed {
		t.Fatal("request after the window should be allowed")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	r := &InMemoryRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    1,
		window:   time.Minute,
	}
	now := time.Unix(1700000000, 0)
	r.allowAt("a", now)
	if allowed, _ := r.allowAt("b", now); !allowed {
		t.Fatal("key b should not share key a's budget")
	}
}
