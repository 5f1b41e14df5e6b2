package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func noRetry(resp *http.Response, err error) bool { return false }

func TestDoWithRetryNoBreaker(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		Multiplier: 2.0,
	}
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 after retries, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestDoWithRetryBreakerOpensOnServerErrors(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := RetryConfig{
		MaxRetries: 0,
		BaseDelay:  time.Millisecond,
		Multiplier: 2.0,
		RetryFunc:  noRetry,
		CircuitBreaker: NewCircuitBreaker(CircuitBreakerConfig{
			Name:         "upstream",
			MinRequests:  2,
			FailureRatio: 1.0,
			Timeout:      time.Minute,
		}),
	}

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
		resp, err := DoWithRetry(context.Background(), ts.Client(), req, cfg)
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i+1, err)
		}
		resp.Body.Close()
	}

	if state := cfg.CircuitBreaker.State(); state != StateOpen {
		t.Fatalf("expected open breaker after failures, got %s", state)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	_, err := DoWithRetry(context.Background(), ts.Client(), req, cfg)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Fatalf("expected circuit breaker rejection, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("open breaker must not reach the upstream: %d hits", got)
	}
}

func TestDoWithRetryBreakerPassesSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg := RetryConfig{
		MaxRetries:     0,
		BaseDelay:      time.Millisecond,
		Multiplier:     2.0,
		RetryFunc:      noRetry,
		CircuitBreaker: NewCircuitBreaker(DefaultCircuitBreakerConfig()),
	}
	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if state := cfg.CircuitBreaker.State(); state != StateClosed {
		t.Errorf("breaker should stay closed on success, got %s", state)
	}
}
