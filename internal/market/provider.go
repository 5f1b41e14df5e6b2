package market

import (
	"context"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/cache"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

const snapshotCacheKey = "market:snapshot"

// Upstream is the market data source consumed by the Provider.
type Upstream interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
	SimplePrice(ctx context.Context, ids []string) (map[string]CryptoPrice, error)
}

// Provider serves cached market snapshots and point price lookups.
// All methods degrade instead of failing: callers always get usable data.
type Provider struct {
	upstream Upstream
	cache    *cache.Cache
	logger   logging.Logger
}

// NewProvider creates a market data provider over the given upstream and
// cache. The cache owns the TTL policy; pass one built with the desired
// snapshot TTL (120s in production).
func NewProvider(upstream Upstream, c *cache.Cache, logger logging.Logger) *Provider {
	return &Provider{
		upstream: upstream,
		cache:    c,
		logger:   logger,
	}
}

// GetCurrentMarketData returns the current market snapshot. It never
// returns an error: an unexpired cached snapshot is served as-is, a fetch
// failure after expiry falls back to static plausible values.
func (p *Provider) GetCurrentMarketData(ctx context.Context) *Snapshot {
	val, err := p.cache.Get(ctx, snapshotCacheKey, func(ctx context.Context, _ string) (interface{}, error) {
		snapshot, err := p.upstream.FetchSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		p.logger.WithFields(logging.Fields{
			"btc_price": snapshot.Bitcoin.Price,
			"sentiment": snapshot.Sentiment.TrendingSentiment,
		}).Debug("Market snapshot refreshed")
		return snapshot, nil
	})
	if err != nil {
		p.logger.WithError(err).Warn("Market data fetch failed; using fallback snapshot")
		return fallbackSnapshot()
	}
	return val.(*Snapshot)
}

// GetCryptoPrice returns a point quote for a ticker symbol, or nil when the
// upstream is unavailable or the symbol is unknown.
func (p *Provider) GetCryptoPrice(ctx context.Context, symbol string) *CryptoPrice {
	id := IDForSymbol(symbol)
	prices, err := p.upstream.SimplePrice(ctx, []string{id})
	if err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Warn("Price lookup failed")
		return nil
	}
	price, ok := prices[id]
	if !ok {
		return nil
	}
	return &price
}

// GetBulkPrices returns quotes for multiple CoinGecko ids. On failure it
// returns an empty map, never nil and never an error.
func (p *Provider) GetBulkPrices(ctx context.Context, ids []string) map[string]CryptoPrice {
	prices, err := p.upstream.SimplePrice(ctx, ids)
	if err != nil {
		p.logger.WithError(err).Warn("Bulk price lookup failed")
		return map[string]CryptoPrice{}
	}
	return prices
}
