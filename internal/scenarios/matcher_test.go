package scenarios

import (
	"testing"

	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
)

func neutralSnapshot() *market.Snapshot {
	return &market.Snapshot{
		Sentiment: market.MarketSentiment{TrendingSentiment: market.SentimentNeutral},
	}
}

func TestIdentifyNoMatch(t *testing.T) {
	if got := Identify("gm everyone", neutralSnapshot()); got != nil {
		t.Fatalf("expected nil, got %s", got.ID)
	}
}

func TestIdentifyPrecedence(t *testing.T) {
	// Matches both price_prediction ("predict") and technical_analysis
	// ("resistance"); the earlier rule must win.
	msg := "Can you predict if BTC breaks resistance this month?"
	got := Identify(msg, neutralSnapshot())
	if got == nil || got.ID != "price_prediction" {
		t.Fatalf("expected price_prediction to win, got %v", got)
	}
}

func TestIdentifySentimentGate(t *testing.T) {
	msg := "Should I buy more ETH now?"

	bullish := &market.Snapshot{
		Sentiment: market.MarketSentiment{TrendingSentiment: market.SentimentBullish},
	}
	if got := Identify(msg, bullish); got == nil || got.ID != "bull_market_caution" {
		t.Fatalf("expected bull_market_caution under bullish sentiment, got %v", got)
	}

	// Same message under neutral sentiment must not trigger the
	// sentiment-gated rule.
	if got := Identify(msg, neutralSnapshot()); got != nil && got.ID == "bull_market_caution" {
		t.Fatal("bull_market_caution must require bullish sentiment")
	}
}

func TestIdentifyBearishReassurance(t *testing.T) {
	bearish := &market.Snapshot{
		Sentiment: market.MarketSentiment{TrendingSentiment: market.SentimentBearish},
	}
	got := Identify("I'm worried, should I sell everything?", bearish)
	if got == nil || got.ID != "bear_market_reassurance" {
		t.Fatalf("expected bear_market_reassurance, got %v", got)
	}
}

func TestIdentifyDeterminism(t *testing.T) {
	msg := "explain what is staking"
	snap := neutralSnapshot()
	first := Identify(msg, snap)
	second := Identify(msg, snap)
	if first != second {
		t.Fatal("identify must be deterministic for identical inputs")
	}
	if first == nil || first.ID != "beginner_education" {
		t.Fatalf("expected beginner_education, got %v", first)
	}
}

func TestAppliesTo(t *testing.T) {
	var tech *Template
	for _, tpl := range Templates() {
		if tpl.ID == "technical_analysis" {
			tech = tpl
		}
	}
	if tech == nil {
		t.Fatal("technical_analysis template missing")
	}
	if tech.AppliesTo(personas.Buddy) {
		t.Error("technical_analysis should not apply to buddy")
	}
	if !tech.AppliesTo(personas.Trader) {
		t.Error("technical_analysis should apply to trader")
	}
}

func TestDeclaredOrderPinned(t *testing.T) {
	want := []string{
		"price_prediction",
		"bull_market_caution",
		"bear_market_reassurance",
		"technical_analysis",
		"portfolio_review",
		"risk_management",
		"beginner_education",
	}
	got := Templates()
	if len(got) != len(want) {
		t.Fatalf("expected %d templates, got %d", len(want), len(got))
	}
	for i, tpl := range got {
		if tpl.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, tpl.ID, want[i])
		}
	}
}
