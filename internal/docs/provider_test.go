package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

func TestFetchContextReturnsSnippet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("library"); got != "/ethereum/solidity" {
			t.Errorf("library = %q", got)
		}
		_, _ = w.Write([]byte(`{"snippet":"Solidity contracts are compiled to EVM bytecode."}`))
	}))
	defer ts.Close()

	p := NewProvider(Config{BaseURL: ts.URL, Logger: logging.NewLogger()})
	snippet := p.FetchContext(context.Background(), "How do I write a Solidity smart contract?")
	if snippet == "" {
		t.Fatal("expected snippet")
	}
}

func TestFetchContextNoTopicSkipsLookup(t *testing.T) {
	var calls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer ts.Close()

	p := NewProvider(Config{BaseURL: ts.URL, Logger: logging.NewLogger()})
	if got := p.FetchContext(context.Background(), "should I buy the dip?"); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Fatal("expected no HTTP call without a detected topic")
	}
}

func TestFetchContextDegradesToEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	p := NewProvider(Config{BaseURL: ts.URL, Logger: logging.NewLogger()})
	if got := p.FetchContext(context.Background(), "staking rewards question"); got != "" {
		t.Fatalf("expected empty context on upstream failure, got %q", got)
	}
}

func TestFetchContextDisabledWithoutBaseURL(t *testing.T) {
	p := NewProvider(Config{})
	if got := p.FetchContext(context.Background(), "defi liquidity pool"); got != "" {
		t.Fatalf("expected empty context when disabled, got %q", got)
	}
}
