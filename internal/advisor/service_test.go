package advisor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
	"github.com/Qualiasolutions/chainwise-advisor/internal/premiumtools"
	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/llm"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

type fakeBackend struct {
	calls int
	resp  *llm.Response
	err   error

	lastReq llm.Request
}

func (f *fakeBackend) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeMarket struct {
	snapshot *market.Snapshot
	calls    int
}

func (f *fakeMarket) GetCurrentMarketData(ctx context.Context) *market.Snapshot {
	f.calls++
	return f.snapshot
}

type fakeDocs struct {
	snippet string
	calls   int
}

func (f *fakeDocs) FetchContext(ctx context.Context, message string) string {
	f.calls++
	return f.snippet
}

func testSnapshot() *market.Snapshot {
	return &market.Snapshot{
		Bitcoin: market.AssetQuote{
			Price:            50000,
			Change24hPercent: 2.5,
			MarketCap:        980_000_000_000,
			High24h:          50800,
			Low24h:           48900,
			ATHChangePercent: -27.5,
		},
		Ethereum: market.AssetQuote{
			Price:            3400,
			Change24hPercent: 1.1,
			MarketCap:        410_000_000_000,
			High24h:          3460,
			Low24h:           3350,
			ATHChangePercent: -30.2,
		},
		Sentiment: market.MarketSentiment{
			DominanceBTC:      55.2,
			TotalMarketCap:    1_800_000_000_000,
			TrendingSentiment: market.SentimentBullish,
		},
		LastUpdated: time.Now(),
	}
}

func testLogger() logging.Logger {
	logger := logging.NewLogger()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(backend llm.Provider) (*Service, *fakeMarket) {
	mkt := &fakeMarket{snapshot: testSnapshot()}
	svc := NewService(Config{
		Backend: backend,
		Market:  mkt,
		Logger:  testLogger(),
	})
	return svc, mkt
}

func TestGenerateChatResponseLive(t *testing.T) {
	backend := &fakeBackend{resp: &llm.Response{
		Content:      "Here is my take.",
		Model:        "gpt-4o-mini",
		InputTokens:  120,
		OutputTokens: 40,
	}}
	svc, _ := newTestService(backend)

	res, err := svc.GenerateChatResponse(context.Background(), ChatOptions{
		Persona:  personas.Buddy,
		Message:  "What do you think about bitcoin?",
		UserTier: subscription.TierFree,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fallback {
		t.Error("expected live response, got fallback")
	}
	if res.Text != "Here is my take." {
		t.Errorf("unexpected text %q", res.Text)
	}
	if res.InputTokens != 120 || res.OutputTokens != 40 {
		t.Errorf("token accounting not propagated: %+v", res)
	}
	if backend.calls != 1 {
		t.Errorf("expected exactly one completion call, got %d", backend.calls)
	}
}

func TestGenerateChatResponseUnknownPersona(t *testing.T) {
	backend := &fakeBackend{resp: &llm.Response{Content: "x"}}
	docs := &fakeDocs{}
	mkt := &fakeMarket{snapshot: testSnapshot()}
	svc := NewService(Config{Backend: backend, Docs: docs, Market: mkt, Logger: testLogger()})

	_, err := svc.GenerateChatResponse(context.Background(), ChatOptions{
		Persona: "oracle",
		Message: "hi",
	})
	if !errors.Is(err, ErrInvalidPersona) {
		t.Fatalf("expected ErrInvalidPersona, got %v", err)
	}
	if backend.calls != 0 || docs.calls != 0 || mkt.calls != 0 {
		t.Errorf("unknown persona must not reach external providers: backend=%d docs=%d market=%d",
			backend.calls, docs.calls, mkt.calls)
	}
}

func TestGenerateChatResponseFallbackOnError(t *testing.T) {
	backend := &fakeBackend{err: llm.ErrQuotaExceeded}
	svc, _ := newTestService(backend)

	res, err := svc.GenerateChatResponse(context.Background(), ChatOptions{
		Persona:  personas.Trader,
		Message:  "What about BTC?",
		UserTier: subscription.TierElite,
	})
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	if !res.Fallback {
		t.Fatal("expected Fallback to be set")
	}
	if !strings.Contains(res.Text, "BTC:") {
		t.Errorf("trader mock should lead with the BTC line, got %q", res.Text)
	}
	if !strings.Contains(res.Text, "$50,000") {
		t.Errorf("mock should inject live price, got %q", res.Text)
	}
	if !strings.Contains(res.Text, "+2.5%") {
		t.Errorf("mock should inject live change, got %q", res.Text)
	}
}

func TestGenerateChatResponseNilBackend(t *testing.T) {
	svc, _ := newTestService(nil)

	for _, id := range []string{personas.Buddy, personas.Professor, personas.Trader} {
		res, err := svc.GenerateChatResponse(context.Background(), ChatOptions{
			Persona:  id,
			Message:  "how is the market?",
			UserTier: subscription.TierElite,
		})
		if err != nil {
			t.Fatalf("persona %s: %v", id, err)
		}
		if !res.Fallback {
			t.Errorf("persona %s: expected fallback without a backend", id)
		}
		if res.Text == "" {
			t.Errorf("persona %s: fallback produced empty text", id)
		}
	}
}

func TestGenerateChatResponseMockDeterminism(t *testing.T) {
	svc, _ := newTestService(nil)
	opts := ChatOptions{
		Persona:  personas.Professor,
		Message:  "Can you predict where ETH goes?",
		UserTier: subscription.TierPro,
	}

	first, err := svc.GenerateChatResponse(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.GenerateChatResponse(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Text != second.Text {
		t.Error("mock responses must be deterministic for identical inputs")
	}
}

func TestGenerateChatResponseHistoryTruncation(t *testing.T) {
	backend := &fakeBackend{resp: &llm.Response{Content: "ok"}}
	svc, _ := newTestService(backend)

	history := make([]llm.Message, 30)
	for i := range history {
		history[i] = llm.Message{Role: llm.RoleUser, Content: "older"}
	}
	_, err := svc.GenerateChatResponse(context.Background(), ChatOptions{
		Persona: personas.Buddy,
		Message: "latest",
		History: history,
	})
	if err != nil {
		t.Fatal(err)
	}
	// system + capped history + current message
	if got := len(backend.lastReq.Messages); got != maxHistoryMessages+2 {
		t.Errorf("expected %d messages, got %d", maxHistoryMessages+2, got)
	}
	if backend.lastReq.Messages[0].Role != llm.RoleSystem {
		t.Error("first message must be the system prompt")
	}
	last := backend.lastReq.Messages[len(backend.lastReq.Messages)-1]
	if last.Content != "latest" {
		t.Errorf("last message should be the current input, got %q", last.Content)
	}
}

func TestGenerateChatResponseModelPerPersona(t *testing.T) {
	backend := &fakeBackend{resp: &llm.Response{Content: "ok"}}
	svc, _ := newTestService(backend)

	_, err := svc.GenerateChatResponse(context.Background(), ChatOptions{
		Persona: personas.Professor,
		Message: "explain staking",
	})
	if err != nil {
		t.Fatal(err)
	}
	professor, _ := personas.Get(personas.Professor)
	if backend.lastReq.Model != professor.Model {
		t.Errorf("expected model %s, got %s", professor.Model, backend.lastReq.Model)
	}
}

func TestGeneratePremiumToolResponseUnknownTool(t *testing.T) {
	backend := &fakeBackend{resp: &llm.Response{Content: "x"}}
	svc, mkt := newTestService(backend)

	_, err := svc.GeneratePremiumToolResponse(context.Background(), "time_machine", nil, subscription.TierElite, 0)
	if !errors.Is(err, ErrInvalidTool) {
		t.Fatalf("expected ErrInvalidTool, got %v", err)
	}
	if backend.calls != 0 || mkt.calls != 0 {
		t.Error("unknown tool must not reach external providers")
	}
}

func TestGeneratePremiumToolResponseTierGate(t *testing.T) {
	backend := &fakeBackend{resp: &llm.Response{Content: "x"}}
	svc, _ := newTestService(backend)

	_, err := svc.GeneratePremiumToolResponse(context.Background(), premiumtools.WhaleTracker, nil, subscription.TierFree, 0)
	if !errors.Is(err, ErrInsufficientTier) {
		t.Fatalf("expected ErrInsufficientTier, got %v", err)
	}
	if backend.calls != 0 {
		t.Error("tier gate must fire before any backend call")
	}

	res, err := svc.GeneratePremiumToolResponse(context.Background(), premiumtools.WhaleTracker, nil, subscription.TierPro, 0)
	if err != nil {
		t.Fatalf("pro tier should pass the gate: %v", err)
	}
	if res.Text != "x" {
		t.Errorf("unexpected text %q", res.Text)
	}
	if backend.calls != 1 {
		t.Errorf("expected one backend call, got %d", backend.calls)
	}
	if backend.lastReq.Model != premiumtools.Model {
		t.Errorf("tools must use the fixed model, got %s", backend.lastReq.Model)
	}
}

func TestGeneratePremiumToolResponseFallback(t *testing.T) {
	backend := &fakeBackend{err: errors.New("upstream 500")}
	svc, _ := newTestService(backend)

	res, err := svc.GeneratePremiumToolResponse(context.Background(), premiumtools.WhaleTracker,
		map[string]interface{}{"asset": "BTC"}, subscription.TierElite, 0)
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	if !res.Fallback {
		t.Fatal("expected Fallback to be set")
	}
	if !strings.Contains(strings.ToLower(res.Text), "whale") {
		t.Errorf("whale tracker mock should talk about whales, got %q", res.Text)
	}
	if !strings.Contains(res.Text, "$50,000") {
		t.Errorf("tool mock should inject live BTC price, got %q", res.Text)
	}
}

func TestGeneratePremiumToolResponseAllToolsFallback(t *testing.T) {
	svc, _ := newTestService(nil)

	for _, tool := range premiumtools.All() {
		res, err := svc.GeneratePremiumToolResponse(context.Background(), tool.ID, nil, subscription.TierElite, 0)
		if err != nil {
			t.Fatalf("tool %s: %v", tool.ID, err)
		}
		if res.Text == "" {
			t.Errorf("tool %s: empty fallback text", tool.ID)
		}
	}
}
