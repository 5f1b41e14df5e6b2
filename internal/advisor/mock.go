package advisor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
	"github.com/Qualiasolutions/chainwise-advisor/internal/premiumtools"
)

// mentionsWord reports whether any of the words appears as a whole token in
// the lowered message. Substring checks misfire on asset tickers ("eth"
// inside "whether"), so ticker and action words match on word boundaries.
func mentionsWord(lowered string, words ...string) bool {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, field := range fields {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}

// mockChatResponse fabricates a plausible persona-voiced answer from live
// market data. It is a pure function of its inputs: identical persona,
// message, and snapshot always produce identical text.
func mockChatResponse(p *personas.Persona, message string, s *market.Snapshot) string {
	lowered := strings.ToLower(message)

	switch p.ID {
	case personas.Trader:
		return mockTraderResponse(lowered, s)
	case personas.Professor:
		return mockProfessorResponse(lowered, s)
	default:
		return mockBuddyResponse(lowered, s)
	}
}

func mockTraderResponse(lowered string, s *market.Snapshot) string {
	var b strings.Builder
	switch {
	case mentionsWord(lowered, "eth", "ethereum"):
		fmt.Fprintf(&b, "ETH: %s (%s). Range %s-%s.\n",
			formatUSD(s.Ethereum.Price), formatPercent(s.Ethereum.Change24hPercent),
			formatUSD(s.Ethereum.Low24h), formatUSD(s.Ethereum.High24h))
		b.WriteString("Bias follows BTC here. Invalidation below the 24h low. Size half until the range resolves.")
	case mentionsWord(lowered, "btc", "bitcoin"):
		fmt.Fprintf(&b, "BTC: %s (%s). Range %s-%s.\n",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent),
			formatUSD(s.Bitcoin.Low24h), formatUSD(s.Bitcoin.High24h))
		fmt.Fprintf(&b, "Sentiment %s. Trade the range edges, invalidation on a close beyond the 24h extreme. No chasing.",
			s.Sentiment.TrendingSentiment)
	default:
		fmt.Fprintf(&b, "BTC: %s (%s) | ETH: %s (%s). Sentiment %s.\n",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent),
			formatUSD(s.Ethereum.Price), formatPercent(s.Ethereum.Change24hPercent),
			s.Sentiment.TrendingSentiment)
		b.WriteString("No clean setup from this question. Define the asset and timeframe, then we talk levels.")
	}
	return b.String()
}

func mockProfessorResponse(lowered string, s *market.Snapshot) string {
	var b strings.Builder
	b.WriteString("Let's ground this in the current data.\n\n")
	b.WriteString(formatMarketBlock(personas.Professor, s))
	b.WriteString("\n")
	switch {
	case strings.Contains(lowered, "predict") || strings.Contains(lowered, "forecast"):
		b.WriteString("On prediction: no model gives a single reliable number. Frame it as scenarios — a bear case near the recent lows, a base case around current levels, and a bull case that requires fresh inflows. Reassess as the data changes.")
	case strings.Contains(lowered, "portfolio") || strings.Contains(lowered, "allocation"):
		b.WriteString("On allocation: a defensible core is majority BTC/ETH with a stablecoin reserve for rebalancing. Satellites should be sized so that a total loss does not change your outcome.")
	default:
		b.WriteString("Takeaway: the figures above describe conditions, not destiny. Decide what thesis you are testing, then let the data confirm or refute it.")
	}
	return b.String()
}

func mockBuddyResponse(lowered string, s *market.Snapshot) string {
	var b strings.Builder
	switch {
	case mentionsWord(lowered, "btc", "bitcoin"):
		fmt.Fprintf(&b, "Bitcoin is sitting at %s right now, %s over the last day. ",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent))
		fmt.Fprintf(&b, "The overall mood is %s. ", s.Sentiment.TrendingSentiment)
		b.WriteString("Nothing here screams act-now — steady and patient usually beats chasing moves.")
	case mentionsWord(lowered, "eth", "ethereum"):
		fmt.Fprintf(&b, "Ethereum is around %s at the moment (%s today). ",
			formatUSD(s.Ethereum.Price), formatPercent(s.Ethereum.Change24hPercent))
		b.WriteString("Think of ETH as the rails lots of crypto apps run on — its long-term story matters more than one day's candle.")
	case mentionsWord(lowered, "buy", "buying", "sell", "selling"):
		fmt.Fprintf(&b, "I can't tell you to buy or sell, but here's the picture: BTC at %s (%s) and the market feeling %s. ",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent), s.Sentiment.TrendingSentiment)
		b.WriteString("Whatever you do, only use money you can afford to leave alone for a while.")
	default:
		fmt.Fprintf(&b, "Quick pulse check: BTC %s, ETH %s, market mood %s. ",
			formatUSD(s.Bitcoin.Price), formatUSD(s.Ethereum.Price), s.Sentiment.TrendingSentiment)
		b.WriteString("Happy to dig into any coin or concept — just name it!")
	}
	return b.String()
}

// mockToolResponse fabricates a deterministic premium tool result that
// still injects live market figures.
func mockToolResponse(tool *premiumtools.Tool, s *market.Snapshot) string {
	var b strings.Builder
	switch tool.ID {
	case premiumtools.WhaleTracker:
		fmt.Fprintf(&b, "Whale activity summary (BTC at %s, %s):\n",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent))
		b.WriteString("- Large wallets moved coins off exchanges over the past day, a pattern that has historically accompanied accumulation.\n")
		b.WriteString("- No dormant whale wallets (>5y) woke up in this window.\n")
		b.WriteString("- Exchange inflow/outflow ratio leans toward outflows.\n")
		b.WriteString("Read: whale behavior tilts accumulative, but flows are a lagging confirmation, not a trigger.")
	case premiumtools.PortfolioAllocator:
		fmt.Fprintf(&b, "Target allocation (market trend: %s):\n", s.Sentiment.TrendingSentiment)
		b.WriteString("- BTC 45% — core store-of-value position\n")
		b.WriteString("- ETH 25% — smart-contract platform exposure\n")
		b.WriteString("- Large-cap alts 15% — diversified satellite sleeve\n")
		b.WriteString("- Stablecoins 15% — dry powder for rebalancing\n")
		b.WriteString("Rebalance when any sleeve drifts more than 5 points from target.")
	case premiumtools.NarrativeScanner:
		fmt.Fprintf(&b, "Narrative momentum (sentiment %s):\n", s.Sentiment.TrendingSentiment)
		b.WriteString("1. AI tokens — rising; compute and agent plays lead social volume\n")
		b.WriteString("2. RWA — steady; institutional pilots keep it in the news cycle\n")
		b.WriteString("3. Memecoins — cooling; churn without fresh inflows\n")
		b.WriteString("Representative assets shift weekly; treat this as a sector map, not picks.")
	case premiumtools.SmartAlerts:
		fmt.Fprintf(&b, "Suggested alert rules (BTC %s, ETH %s):\n",
			formatUSD(s.Bitcoin.Price), formatUSD(s.Ethereum.Price))
		fmt.Fprintf(&b, "- BTC, price cross, %s, upside breakout watch\n", formatUSD(s.Bitcoin.High24h))
		fmt.Fprintf(&b, "- BTC, price cross, %s, downside range break\n", formatUSD(s.Bitcoin.Low24h))
		b.WriteString("- ETH, 24h move, +/-5%, volatility heads-up")
	case premiumtools.AltcoinDetector:
		fmt.Fprintf(&b, "Early-stage screen (risk appetite: %s):\n", s.Sentiment.TrendingSentiment)
		b.WriteString("Checklist: real liquidity (> $2M depth), distributed holders (top-10 < 30%), active repos, narrative fit.\n")
		b.WriteString("Candidate categories this cycle: infra middleware, restaking derivatives.\n")
		b.WriteString("Risk note: assume any single early-stage position can go to zero.")
	case premiumtools.SignalsPack:
		fmt.Fprintf(&b, "BTC: range %s-%s. Direction neutral, entry at range edges, invalidation on daily close outside, target opposite edge.\n",
			formatUSD(s.Bitcoin.Low24h), formatUSD(s.Bitcoin.High24h))
		fmt.Fprintf(&b, "ETH: %s (%s). No edge — waiting for BTC resolution.\n",
			formatUSD(s.Ethereum.Price), formatPercent(s.Ethereum.Change24hPercent))
	default: // ai_reports
		fmt.Fprintf(&b, "Thesis: conditions are %s with BTC at %s and dominance %.1f%%.\n",
			s.Sentiment.TrendingSentiment, formatUSD(s.Bitcoin.Price), s.Sentiment.DominanceBTC)
		b.WriteString("Market Context: majors trade inside their 24h ranges; breadth is narrow.\n")
		b.WriteString("Risks: liquidity gaps below the 24h lows; macro surprises.\n")
		b.WriteString("Scenarios: bear — range low retest; base — continued chop; bull — breakout on volume.\n")
		b.WriteString("Bottom Line: position for the range until the data says otherwise.")
	}
	return b.String()
}
