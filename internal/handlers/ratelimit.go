package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window per-key limiter. Windows live in memory;
// counts reset when the window rolls over.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	clock     func() time.Time
	counts    map[string]*windowCount
	lastSweep time.Time
}

type windowCount struct {
	windowStart time.Time
	count       int
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// clock may be nil; time.Now is used.
func NewRateLimiter(limit int, window time.Duration, clock func() time.Time) *RateLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		clock:  clock,
		counts: make(map[string]*windowCount),
	}
}

// Allow records one request for key and reports whether it is within the
// limit, plus the remaining quota and window reset time.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, reset time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()
	rl.sweep(now)
	wc, ok := rl.counts[key]
	if !ok || now.Sub(wc.windowStart) >= rl.window {
		wc = &windowCount{windowStart: now}
		rl.counts[key] = wc
	}
	reset = wc.windowStart.Add(rl.window)

	if wc.count >= rl.limit {
		return false, 0, reset
	}
	wc.count++
	return true, rl.limit - wc.count, reset
}

// sweep drops expired windows so idle keys do not accumulate for the
// process lifetime. Runs at most once per window. Caller holds the lock.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for key, wc := range rl.counts {
		if now.Sub(wc.windowStart) >= rl.window {
			delete(rl.counts, key)
		}
	}
}

// enforce applies the limiter for the request's user and writes the
// X-RateLimit headers. Returns false after responding 429.
func (h *Handlers) enforce(c *gin.Context, userID string) bool {
	if h.limiter == nil {
		return true
	}
	allowed, remaining, reset := h.limiter.Allow(userID)
	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", h.limiter.limit))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return false
	}
	return true
}
