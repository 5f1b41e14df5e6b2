package market

import "time"

// Sentiment labels for the overall market trend.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// AssetQuote holds the top-line figures for a single asset.
type AssetQuote struct {
	Price            float64 `json:"price"`
	Change24h        float64 `json:"change_24h"`
	Change24hPercent float64 `json:"change_24h_percent"`
	MarketCap        float64 `json:"market_cap"`
	Volume           float64 `json:"volume"`
	High24h          float64 `json:"high_24h"`
	Low24h           float64 `json:"low_24h"`
	ATH              float64 `json:"ath"`
	ATHChangePercent float64 `json:"ath_change_percent"`
}

// MarketSentiment summarizes market-wide indicators.
type MarketSentiment struct {
	DominanceBTC      float64 `json:"dominance_btc"`
	TotalMarketCap    float64 `json:"total_market_cap"`
	TrendingSentiment string  `json:"trending_sentiment"`
}

// Mover is a top gainer or loser entry.
type Mover struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Change24hPercent float64 `json:"change_24h_percent"`
}

// Snapshot is a point-in-time summary of market conditions. Snapshots are
// immutable once built; the provider swaps whole snapshots atomically.
type Snapshot struct {
	Bitcoin     AssetQuote      `json:"bitcoin"`
	Ethereum    AssetQuote      `json:"ethereum"`
	Sentiment   MarketSentiment `json:"market_sentiment"`
	TopMovers   []Mover         `json:"top_movers"`
	LastUpdated time.Time       `json:"last_updated"`
}

// CryptoPrice is a point lookup result for a single asset.
type CryptoPrice struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Change24hPercent float64 `json:"change_24h_percent"`
	MarketCap        float64 `json:"market_cap"`
}

// classifySentiment derives the trending label from BTC's 24h move.
func classifySentiment(btcChangePercent float64) string {
	switch {
	case btcChangePercent >= 2.0:
		return SentimentBullish
	case btcChangePercent <= -2.0:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}
