package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
	"github.com/Qualiasolutions/chainwise-advisor/internal/premiumtools"
	"github.com/Qualiasolutions/chainwise-advisor/internal/scenarios"
	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
)

// buildChatSystemPrompt assembles the final system prompt for a chat call:
// persona template, optional scenario fragment, optional documentation
// snippet, live market block, and the user's tier annotation.
func buildChatSystemPrompt(p *personas.Persona, scenario *scenarios.Template, docsSnippet string, snapshot *market.Snapshot, tier subscription.Tier) string {
	var b strings.Builder
	b.WriteString(p.SystemPrompt)

	if scenario != nil && scenario.AppliesTo(p.ID) {
		b.WriteString("\nCurrent situation\n")
		b.WriteString(scenario.ContextFragment)
		b.WriteString("\nExpected output: ")
		b.WriteString(scenario.OutputFormat)
		b.WriteString("\n")
	}

	if docsSnippet != "" {
		b.WriteString("\nReference documentation\n")
		b.WriteString(docsSnippet)
		b.WriteString("\n")
	}

	b.WriteString("\nLive market data\n")
	b.WriteString(formatMarketBlock(p.ID, snapshot))

	b.WriteString(fmt.Sprintf("\nThe user is on the %s plan.\n", tier))
	return b.String()
}

// buildToolSystemPrompt assembles the system prompt for a premium tool run.
// Tools always get the analytical market block.
func buildToolSystemPrompt(tool *premiumtools.Tool, snapshot *market.Snapshot) string {
	var b strings.Builder
	b.WriteString(tool.SystemPrompt)
	b.WriteString("\n\nOutput format: ")
	b.WriteString(tool.OutputFormat)
	b.WriteString("\n\nLive market data\n")
	b.WriteString(formatMarketBlock(personas.Professor, snapshot))
	return b.String()
}

// formatMarketBlock renders the snapshot in the voice each persona expects:
// casual prose for buddy, a table for professor, terse signal lines for
// trader.
func formatMarketBlock(personaID string, s *market.Snapshot) string {
	if s == nil {
		return "(market data unavailable)\n"
	}
	switch personaID {
	case personas.Trader:
		var b strings.Builder
		fmt.Fprintf(&b, "BTC: %s (%s) | 24h range %s-%s\n",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent),
			formatUSD(s.Bitcoin.Low24h), formatUSD(s.Bitcoin.High24h))
		fmt.Fprintf(&b, "ETH: %s (%s) | 24h range %s-%s\n",
			formatUSD(s.Ethereum.Price), formatPercent(s.Ethereum.Change24hPercent),
			formatUSD(s.Ethereum.Low24h), formatUSD(s.Ethereum.High24h))
		fmt.Fprintf(&b, "Sentiment: %s | BTC dominance %.1f%%\n",
			s.Sentiment.TrendingSentiment, s.Sentiment.DominanceBTC)
		return b.String()
	case personas.Professor:
		var b strings.Builder
		b.WriteString("Asset | Price | 24h | Market Cap | From ATH\n")
		fmt.Fprintf(&b, "BTC | %s | %s | %s | %.1f%%\n",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent),
			formatUSD(s.Bitcoin.MarketCap), s.Bitcoin.ATHChangePercent)
		fmt.Fprintf(&b, "ETH | %s | %s | %s | %.1f%%\n",
			formatUSD(s.Ethereum.Price), formatPercent(s.Ethereum.Change24hPercent),
			formatUSD(s.Ethereum.MarketCap), s.Ethereum.ATHChangePercent)
		fmt.Fprintf(&b, "Total market cap %s, BTC dominance %.1f%%, trend %s.\n",
			formatUSD(s.Sentiment.TotalMarketCap), s.Sentiment.DominanceBTC,
			s.Sentiment.TrendingSentiment)
		return b.String()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "Bitcoin is at %s right now (%s over the last day) and Ethereum is at %s (%s). ",
			formatUSD(s.Bitcoin.Price), formatPercent(s.Bitcoin.Change24hPercent),
			formatUSD(s.Ethereum.Price), formatPercent(s.Ethereum.Change24hPercent))
		fmt.Fprintf(&b, "Overall the market feels %s.\n", s.Sentiment.TrendingSentiment)
		return b.String()
	}
}

// formatUSD renders a dollar amount with thousands separators. Values under
// $100 keep cents; larger values are rounded to whole dollars.
func formatUSD(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	var whole int64
	var cents string
	if v < 100 {
		total := int64(math.Round(v * 100))
		whole = total / 100
		cents = fmt.Sprintf(".%02d", total%100)
	} else {
		whole = int64(math.Round(v))
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return sign + "$" + b.String() + cents
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
