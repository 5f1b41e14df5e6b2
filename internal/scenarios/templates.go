package scenarios

import (
	"strings"

	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
)

// Template describes a detected conversational situation used to enrich
// the base persona prompt.
type Template struct {
	ID                 string
	Category           string
	ApplicablePersonas []string
	ContextFragment    string
	OutputFormat       string
}

// AppliesTo reports whether the template may enrich the given persona.
func (t *Template) AppliesTo(personaID string) bool {
	for _, p := range t.ApplicablePersonas {
		if p == personaID {
			return true
		}
	}
	return false
}

// Predicate decides whether a template matches a message given current
// market conditions.
type Predicate func(message string, snapshot *market.Snapshot) bool

type rule struct {
	matches  Predicate
	template *Template
}

func keywordPredicate(keywords ...string) Predicate {
	return func(message string, _ *market.Snapshot) bool {
		lowered := strings.ToLower(message)
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
		return false
	}
}

func keywordWithSentiment(sentiment string, keywords ...string) Predicate {
	kw := keywordPredicate(keywords...)
	return func(message string, snapshot *market.Snapshot) bool {
		if snapshot == nil || snapshot.Sentiment.TrendingSentiment != sentiment {
			return false
		}
		return kw(message, snapshot)
	}
}

// rules is evaluated in order; the first match wins. The order below is
// the priority contract: price predictions outrank generic technical
// analysis, sentiment-gated scenarios outrank educational ones.
var rules = []rule{
	{
		matches: keywordPredicate("predict", "price target", "forecast", "will it reach", "end of year"),
		template: &Template{
			ID:                 "price_prediction",
			Category:           "prediction",
			ApplicablePersonas: []string{personas.Buddy, personas.Professor, personas.Trader},
			ContextFragment: `The user is asking for a price prediction. Do not give a single
certain number. Present scenario ranges (bear / base / bull) anchored to the
live market data, name the assumptions behind each, and state clearly that
predictions are not financial advice.`,
			OutputFormat: "Three labeled scenarios with ranges and assumptions.",
		},
	},
	{
		matches: keywordWithSentiment(market.SentimentBullish, "buy", "all in", "fomo", "moon"),
		template: &Template{
			ID:                 "bull_market_caution",
			Category:           "sentiment",
			ApplicablePersonas: []string{personas.Buddy, personas.Professor, personas.Trader},
			ContextFragment: `The market is trending bullish and the user sounds eager to buy.
Temper enthusiasm: remind them that strong rallies often retrace, suggest
position sizing over lump entries, and anchor any levels to the live data.`,
			OutputFormat: "Balanced take: momentum read, then risk checklist.",
		},
	},
	{
		matches: keywordWithSentiment(market.SentimentBearish, "sell", "crash", "worried", "panic", "exit"),
		template: &Template{
			ID:                 "bear_market_reassurance",
			Category:           "sentiment",
			ApplicablePersonas: []string{personas.Buddy, personas.Professor, personas.Trader},
			ContextFragment: `The market is trending bearish and the user sounds anxious.
Acknowledge the drawdown with the live numbers, put it in historical
context, and walk through rational options (hold, rebalance, stagger exits)
without pushing any single action.`,
			OutputFormat: "Calm assessment, then option list with trade-offs.",
		},
	},
	{
		matches: keywordPredicate("support", "resistance", "rsi", "macd", "moving average", "chart pattern", "fibonacci"),
		template: &Template{
			ID:                 "technical_analysis",
			Category:           "analysis",
			ApplicablePersonas: []string{personas.Professor, personas.Trader},
			ContextFragment: `The user wants technical analysis. Work from the live price,
24h range, and ATH distance in your market context. Name concrete levels
and the indicator reasoning behind them; never invent values the data
cannot support.`,
			OutputFormat: "Level map (support/resistance) plus indicator read.",
		},
	},
	{
		matches: keywordPredicate("portfolio", "diversif", "allocation", "holdings", "rebalance"),
		template: &Template{
			ID:                 "portfolio_review",
			Category:           "portfolio",
			ApplicablePersonas: []string{personas.Buddy, personas.Professor, personas.Trader},
			ContextFragment: `The user is asking about portfolio construction. Discuss
allocation principles (core holdings, satellites, stablecoin reserve)
relative to current market conditions. Keep advice educational, not
prescriptive.`,
			OutputFormat: "Allocation principles, then a worked example table.",
		},
	},
	{
		matches: keywordPredicate("stop loss", "position size", "risk management", "leverage"),
		template: &Template{
			ID:                 "risk_management",
			Category:           "risk",
			ApplicablePersonas: []string{personas.Professor, personas.Trader},
			ContextFragment: `The user is asking about risk management. Cover position
sizing, stop placement relative to the live 24h range, and the asymmetry
of losses. Treat leverage as a hazard to be justified, not a default.`,
			OutputFormat: "Rules list with one-line rationale each.",
		},
	},
	{
		matches: keywordPredicate("what is", "how does", "explain", "difference between"),
		template: &Template{
			ID:                 "beginner_education",
			Category:           "education",
			ApplicablePersonas: []string{personas.Buddy, personas.Professor},
			ContextFragment: `The user is asking a foundational question. Explain from first
principles with a simple analogy, then add one level of depth. Avoid
price talk unless the user asked for it.`,
			OutputFormat: "Plain-language explanation, then a short 'going deeper' note.",
		},
	},
}

// Templates returns the declared templates in priority order.
func Templates() []*Template {
	out := make([]*Template, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.template)
	}
	return out
}
