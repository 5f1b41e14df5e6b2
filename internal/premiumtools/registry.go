package premiumtools

import (
	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
)

// Tool is a premium analytical tool definition. Definitions are static
// for the process lifetime. All tools run on the highest-capability model;
// there is no per-tool model selection.
type Tool struct {
	ID           string
	DisplayName  string
	CreditCost   int
	RequiredTier subscription.Tier
	SystemPrompt string
	OutputFormat string
}

const (
	PortfolioAllocator = "portfolio_allocator"
	WhaleTracker       = "whale_tracker"
	NarrativeScanner   = "narrative_scanner"
	SmartAlerts        = "smart_alerts"
	AltcoinDetector    = "altcoin_detector"
	SignalsPack        = "signals_pack"
	AIReports          = "ai_reports"
)

// Model is the completion model used for every premium tool.
const Model = "gpt-4o"

var registry = map[string]*Tool{
	PortfolioAllocator: {
		ID:           PortfolioAllocator,
		DisplayName:  "AI Portfolio Allocator",
		CreditCost:   5,
		RequiredTier: subscription.TierPro,
		SystemPrompt: `You are ChainWise's portfolio allocation engine.
Given a user's holdings, risk tolerance, and investment horizon, propose a
target allocation across major assets, layer-1s, and stablecoins. Use the
live market data in your context to anchor every figure. Always include a
stablecoin reserve and explain each weighting in one sentence.`,
		OutputFormat: "Allocation table (asset, target %, rationale) followed by a rebalancing note.",
	},
	WhaleTracker: {
		ID:           WhaleTracker,
		DisplayName:  "Whale Tracker",
		CreditCost:   3,
		RequiredTier: subscription.TierPro,
		SystemPrompt: `You are ChainWise's whale movement analyst.
Interpret large-wallet activity: exchange inflows and outflows, dormant
wallet awakenings, and accumulation patterns. Relate whale behavior to the
current price action in your market context and state what it historically
signals, with the caveat that past flows do not guarantee outcomes.`,
		OutputFormat: "Summary of notable whale transactions, then an accumulation/distribution read.",
	},
	NarrativeScanner: {
		ID:           NarrativeScanner,
		DisplayName:  "Narrative Scanner",
		CreditCost:   3,
		RequiredTier: subscription.TierPro,
		SystemPrompt: `You are ChainWise's narrative and sector rotation scanner.
Identify which crypto narratives (AI tokens, RWA, DeFi, L2s, memecoins,
gaming) are gaining or losing momentum. Tie each narrative to the market
sentiment in your context and name representative assets without endorsing
purchases.`,
		OutputFormat: "Ranked narrative list with momentum direction and representative assets.",
	},
	SmartAlerts: {
		ID:           SmartAlerts,
		DisplayName:  "Smart Alerts",
		CreditCost:   2,
		RequiredTier: subscription.TierPro,
		SystemPrompt: `You are ChainWise's alert configuration assistant.
Translate a user's plain-language request into concrete alert rules: asset,
condition (price cross, % move, volume spike), threshold, and direction.
Use current prices from your market context to sanity-check thresholds and
warn when a requested level is implausibly far from market.`,
		OutputFormat: "One alert rule per line: asset, condition, threshold, note.",
	},
	AltcoinDetector: {
		ID:           AltcoinDetector,
		DisplayName:  "Altcoin Early Detector",
		CreditCost:   4,
		RequiredTier: subscription.TierElite,
		SystemPrompt: `You are ChainWise's early-stage altcoin screener.
Evaluate small-cap assets on liquidity, holder distribution, developer
activity, and narrative fit. Lead with risk: most early-stage tokens fail.
Use market sentiment from your context to frame how risk appetite affects
this segment.`,
		OutputFormat: "Screening criteria checklist, then candidate categories with risk notes.",
	},
	SignalsPack: {
		ID:           SignalsPack,
		DisplayName:  "Daily Signals Pack",
		CreditCost:   5,
		RequiredTier: subscription.TierElite,
		SystemPrompt: `You are ChainWise's trading signals desk.
Produce a daily pack of setups for major assets: direction, entry zone,
invalidation, and target, each derived from the live prices and 24h moves
in your market context. Every signal must carry an invalidation level.
State "no edge" for assets without a clean setup.`,
		OutputFormat: "Per-asset signal block: direction, entry, invalidation, target.",
	},
	AIReports: {
		ID:           AIReports,
		DisplayName:  "AI Deep-Dive Reports",
		CreditCost:   10,
		RequiredTier: subscription.TierElite,
		SystemPrompt: `You are ChainWise's research desk writing institutional-grade reports.
Produce a structured deep-dive on the requested asset or theme: thesis,
market context (anchored to the live data provided), fundamentals, risks,
and scenarios. Separate data, consensus view, and your own analysis into
clearly labeled sections.`,
		OutputFormat: "Sections: Thesis, Market Context, Fundamentals, Risks, Scenarios, Bottom Line.",
	},
}

var ordered = []string{
	PortfolioAllocator,
	WhaleTracker,
	NarrativeScanner,
	SmartAlerts,
	AltcoinDetector,
	SignalsPack,
	AIReports,
}

// Get returns the tool definition for id.
func Get(id string) (*Tool, bool) {
	t, ok := registry[id]
	return t, ok
}

// All returns tool definitions in declaration order.
func All() []*Tool {
	out := make([]*Tool, 0, len(ordered))
	for _, id := range ordered {
		out = append(out, registry[id])
	}
	return out
}
