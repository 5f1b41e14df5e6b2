package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/clients"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient fetches market data from the CoinGecko public API.
type CoinGeckoClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	logger      logging.Logger
	retryConfig clients.RetryConfig
}

// CoinGeckoConfig configures the upstream client.
type CoinGeckoConfig struct {
	BaseURL              string
	APIKey               string
	Timeout              time.Duration
	Logger               logging.Logger
	RetryConfig          *clients.RetryConfig
	CircuitBreakerConfig *clients.CircuitBreakerConfig
}

// NewCoinGeckoClient creates a new CoinGecko API client.
func NewCoinGeckoClient(cfg CoinGeckoConfig) *CoinGeckoClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCoinGeckoURL
	}

	retryConfig := clients.DefaultRetryConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}
	if cfg.CircuitBreakerConfig != nil {
		retryConfig.CircuitBreaker = clients.NewCircuitBreaker(*cfg.CircuitBreakerConfig)
	}

	return &CoinGeckoClient{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      cfg.Logger,
		retryConfig: retryConfig,
	}
}

type geckoMarketRow struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	CurrentPrice     float64 `json:"current_price"`
	MarketCap        float64 `json:"market_cap"`
	TotalVolume      float64 `json:"total_volume"`
	High24h          float64 `json:"high_24h"`
	Low24h           float64 `json:"low_24h"`
	PriceChange24h   float64 `json:"price_change_24h"`
	PriceChangePct   float64 `json:"price_change_percentage_24h"`
	ATH              float64 `json:"ath"`
	ATHChangePercent float64 `json:"ath_change_percentage"`
}

type geckoGlobal struct {
	Data struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

// FetchSnapshot pulls the top market rows plus global dominance figures and
// assembles a complete Snapshot.
func (c *CoinGeckoClient) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var rows []geckoMarketRow
	marketsURL := fmt.Sprintf(
		"%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=10&page=1&price_change_percentage=24h",
		c.baseURL,
	)
	if err := c.getJSON(ctx, marketsURL, &rows); err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	snapshot := &Snapshot{LastUpdated: time.Now().UTC()}
	var haveBTC, haveETH bool
	for _, row := range rows {
		quote := AssetQuote{
			Price:            row.CurrentPrice,
			Change24h:        row.PriceChange24h,
			Change24hPercent: row.PriceChangePct,
			MarketCap:        row.MarketCap,
			Volume:           row.TotalVolume,
			High24h:          row.High24h,
			Low24h:           row.Low24h,
			ATH:              row.ATH,
			ATHChangePercent: row.ATHChangePercent,
		}
		switch row.ID {
		case "bitcoin":
			snapshot.Bitcoin = quote
			haveBTC = true
		case "ethereum":
			snapshot.Ethereum = quote
			haveETH = true
		default:
			snapshot.TopMovers = append(snapshot.TopMovers, Mover{
				Symbol:           strings.ToUpper(row.Symbol),
				Name:             row.Name,
				Price:            row.CurrentPrice,
				Change24hPercent: row.PriceChangePct,
			})
		}
	}
	if !haveBTC || !haveETH {
		return nil, fmt.Errorf("coingecko markets: response missing bitcoin or ethereum")
	}

	var global geckoGlobal
	if err := c.getJSON(ctx, c.baseURL+"/global", &global); err != nil {
		// Dominance is secondary; approximate from what we have rather
		// than failing the whole snapshot.
		if c.logger != nil {
			c.logger.WithError(err).Warn("CoinGecko global endpoint failed; approximating dominance")
		}
		snapshot.Sentiment = MarketSentiment{
			DominanceBTC:      0,
			TotalMarketCap:    snapshot.Bitcoin.MarketCap + snapshot.Ethereum.MarketCap,
			TrendingSentiment: classifySentiment(snapshot.Bitcoin.Change24hPercent),
		}
		return snapshot, nil
	}

	snapshot.Sentiment = MarketSentiment{
		DominanceBTC:      global.Data.MarketCapPercentage["btc"],
		TotalMarketCap:    global.Data.TotalMarketCap["usd"],
		TrendingSentiment: classifySentiment(snapshot.Bitcoin.Change24hPercent),
	}
	return snapshot, nil
}

type geckoSimplePrice map[string]struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// SimplePrice fetches point quotes for the given CoinGecko asset ids.
func (c *CoinGeckoClient) SimplePrice(ctx context.Context, ids []string) (map[string]CryptoPrice, error) {
	if len(ids) == 0 {
		return map[string]CryptoPrice{}, nil
	}
	priceURL := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_market_cap=true&include_24hr_change=true",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")),
	)

	var decoded geckoSimplePrice
	if err := c.getJSON(ctx, priceURL, &decoded); err != nil {
		return nil, fmt.Errorf("coingecko simple price: %w", err)
	}

	out := make(map[string]CryptoPrice, len(decoded))
	for id, row := range decoded {
		out[id] = CryptoPrice{
			ID:               id,
			Symbol:           symbolForID(id),
			Price:            row.USD,
			Change24hPercent: row.USD24hChange,
			MarketCap:        row.USDMarketCap,
		}
	}
	return out, nil
}

func (c *CoinGeckoClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := clients.DoWithRetry(ctx, c.httpClient, req, c.retryConfig)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// coinIDs maps common ticker symbols to CoinGecko asset ids.
var coinIDs = map[string]string{
	"btc":  "bitcoin",
	"eth":  "ethereum",
	"sol":  "solana",
	"bnb":  "binancecoin",
	"xrp":  "ripple",
	"ada":  "cardano",
	"doge": "dogecoin",
	"dot":  "polkadot",
	"link": "chainlink",
	"avax": "avalanche-2",
}

// IDForSymbol resolves a ticker symbol to a CoinGecko id. Unknown symbols
// are passed through lower-cased on the assumption they are already ids.
func IDForSymbol(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if id, ok := coinIDs[s]; ok {
		return id
	}
	return s
}

func symbolForID(id string) string {
	for symbol, mapped := range coinIDs {
		if mapped == id {
			return strings.ToUpper(symbol)
		}
	}
	return strings.ToUpper(id)
}
