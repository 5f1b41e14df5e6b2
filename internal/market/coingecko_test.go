package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

const marketsPayload = `[
  {"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":50000,"market_cap":1000000000000,
   "total_volume":40000000000,"high_24h":51000,"low_24h":48500,"price_change_24h":1250,
   "price_change_percentage_24h":2.5,"ath":108268,"ath_change_percentage":-53.8},
  {"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3400,"market_cap":410000000000,
   "total_volume":18000000000,"high_24h":3460,"low_24h":3310,"price_change_24h":45,
   "price_change_percentage_24h":1.34,"ath":4878,"ath_change_percentage":-30.3},
  {"id":"solana","symbol":"sol","name":"Solana","current_price":195,"market_cap":90000000000,
   "total_volume":3000000000,"high_24h":201,"low_24h":188,"price_change_24h":7.2,
   "price_change_percentage_24h":3.8,"ath":260,"ath_change_percentage":-25.0}
]`

const globalPayload = `{"data":{"total_market_cap":{"usd":3500000000000},"market_cap_percentage":{"btc":55.2,"eth":12.1}}}`

func newGeckoTestServer(t *testing.T, globalStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/markets":
			_, _ = w.Write([]byte(marketsPayload))
		case "/global":
			if globalStatus != http.StatusOK {
				w.WriteHeader(globalStatus)
				return
			}
			_, _ = w.Write([]byte(globalPayload))
		case "/simple/price":
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":50000,"usd_market_cap":1000000000000,"usd_24h_change":2.5}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestFetchSnapshot(t *testing.T) {
	ts := newGeckoTestServer(t, http.StatusOK)
	defer ts.Close()

	client := NewCoinGeckoClient(CoinGeckoConfig{BaseURL: ts.URL, Logger: logging.NewLogger()})
	snapshot, err := client.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("fetch snapshot: %v", err)
	}

	if snapshot.Bitcoin.Price != 50000 {
		t.Errorf("btc price = %v, want 50000", snapshot.Bitcoin.Price)
	}
	if snapshot.Ethereum.Price != 3400 {
		t.Errorf("eth price = %v, want 3400", snapshot.Ethereum.Price)
	}
	if snapshot.Sentiment.DominanceBTC != 55.2 {
		t.Errorf("dominance = %v, want 55.2", snapshot.Sentiment.DominanceBTC)
	}
	if snapshot.Sentiment.TrendingSentiment != SentimentBullish {
		t.Errorf("sentiment = %s, want bullish (btc +2.5%%)", snapshot.Sentiment.TrendingSentiment)
	}
	if len(snapshot.TopMovers) != 1 || snapshot.TopMovers[0].Symbol != "SOL" {
		t.Errorf("unexpected top movers: %+v", snapshot.TopMovers)
	}
}

func TestFetchSnapshotSurvivesGlobalFailure(t *testing.T) {
	ts := newGeckoTestServer(t, http.StatusNotFound)
	defer ts.Close()

	client := NewCoinGeckoClient(CoinGeckoConfig{BaseURL: ts.URL, Logger: logging.NewLogger()})
	snapshot, err := client.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("expected snapshot despite /global failure, got %v", err)
	}
	if snapshot.Sentiment.TrendingSentiment != SentimentBullish {
		t.Errorf("sentiment should still be derived from btc move")
	}
}

func TestSimplePrice(t *testing.T) {
	ts := newGeckoTestServer(t, http.StatusOK)
	defer ts.Close()

	client := NewCoinGeckoClient(CoinGeckoConfig{BaseURL: ts.URL, Logger: logging.NewLogger()})
	prices, err := client.SimplePrice(context.Background(), []string{"bitcoin"})
	if err != nil {
		t.Fatalf("simple price: %v", err)
	}
	price, ok := prices["bitcoin"]
	if !ok || price.Price != 50000 {
		t.Fatalf("unexpected prices: %+v", prices)
	}
	if price.Symbol != "BTC" {
		t.Errorf("symbol = %s, want BTC", price.Symbol)
	}
}

func TestClassifySentiment(t *testing.T) {
	cases := []struct {
		change float64
		want   string
	}{
		{3.0, SentimentBullish},
		{2.0, SentimentBullish},
		{0.5, SentimentNeutral},
		{-1.9, SentimentNeutral},
		{-2.5, SentimentBearish},
	}
	for _, tc := range cases {
		if got := classifySentiment(tc.change); got != tc.want {
			t.Errorf("classifySentiment(%v) = %s, want %s", tc.change, got, tc.want)
		}
	}
}
