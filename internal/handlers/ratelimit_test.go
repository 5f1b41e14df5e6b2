package handlers

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	rl := NewRateLimiter(2, time.Hour, clock)

	if ok, remaining, _ := rl.Allow("u1"); !ok || remaining != 1 {
		t.Errorf("first request: ok=%v remaining=%d", ok, remaining)
	}
	if ok, remaining, _ := rl.Allow("u1"); !ok || remaining != 0 {
		t.Errorf("second request: ok=%v remaining=%d", ok, remaining)
	}
	if ok, _, _ := rl.Allow("u1"); ok {
		t.Error("third request should be rejected")
	}

	// other keys are independent
	if ok, _, _ := rl.Allow("u2"); !ok {
		t.Error("separate key should have its own window")
	}

	// window rollover resets the count
	now = now.Add(time.Hour)
	if ok, remaining, _ := rl.Allow("u1"); !ok || remaining != 1 {
		t.Errorf("post-rollover request: ok=%v remaining=%d", ok, remaining)
	}
}

func TestRateLimiterSweepsStaleKeys(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(5, time.Hour, func() time.Time { return now })

	rl.Allow("u1")
	rl.Allow("u2")
	if len(rl.counts) != 2 {
		t.Fatalf("expected 2 tracked keys, got %d", len(rl.counts))
	}

	now = now.Add(2 * time.Hour)
	rl.Allow("u3")
	if len(rl.counts) != 1 {
		t.Errorf("expired windows should be swept, got %d keys", len(rl.counts))
	}
	if _, ok := rl.counts["u3"]; !ok {
		t.Error("active key must survive the sweep")
	}
}

func TestRateLimiterReset(t *testing.T) {
	start := time.Unix(5000, 0)
	rl := NewRateLimiter(1, time.Hour, func() time.Time { return start })

	_, _, reset := rl.Allow("u1")
	if want := start.Add(time.Hour); !reset.Equal(want) {
		t.Errorf("reset = %v, want %v", reset, want)
	}
}
