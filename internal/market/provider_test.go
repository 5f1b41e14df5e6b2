package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/cache"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

type fakeUpstream struct {
	mu            sync.Mutex
	fetchCalls    int
	failSnapshot  bool
	failPrices    bool
	snapshotPrice float64
}

func (f *fakeUpstream) FetchSnapshot(_ context.Context) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.failSnapshot {
		return nil, errors.New("upstream down")
	}
	return &Snapshot{
		Bitcoin:     AssetQuote{Price: f.snapshotPrice, Change24hPercent: 2.5},
		Ethereum:    AssetQuote{Price: 3400},
		Sentiment:   MarketSentiment{TrendingSentiment: SentimentBullish},
		LastUpdated: time.Now(),
	}, nil
}

func (f *fakeUpstream) SimplePrice(_ context.Context, ids []string) (map[string]CryptoPrice, error) {
	if f.failPrices {
		return nil, errors.New("upstream down")
	}
	out := make(map[string]CryptoPrice, len(ids))
	for _, id := range ids {
		out[id] = CryptoPrice{ID: id, Price: 100}
	}
	return out, nil
}

func (f *fakeUpstream) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func newTestProvider(up *fakeUpstream, clock *manualClock) *Provider {
	c := cache.New(cache.Options{TTL: 2 * time.Minute, Clock: clock.Now}, cache.MetricsHooks{})
	return NewProvider(up, c, logging.NewLogger())
}

func TestSnapshotCachedWithinTTL(t *testing.T) {
	up := &fakeUpstream{snapshotPrice: 50000}
	clock := &manualClock{now: time.Unix(1700000000, 0)}
	p := newTestProvider(up, clock)

	first := p.GetCurrentMarketData(context.Background())
	if first.Bitcoin.Price != 50000 {
		t.Fatalf("expected live snapshot, got %v", first.Bitcoin.Price)
	}

	clock.Advance(90 * time.Second)
	second := p.GetCurrentMarketData(context.Background())
	if second != first {
		t.Fatal("expected same snapshot object within TTL")
	}
	if up.calls() != 1 {
		t.Fatalf("expected one upstream fetch, got %d", up.calls())
	}

	clock.Advance(31 * time.Second)
	p.GetCurrentMarketData(context.Background())
	if up.calls() != 2 {
		t.Fatalf("expected refresh after TTL, got %d fetches", up.calls())
	}
}

func TestSnapshotFallsBackOnFailure(t *testing.T) {
	up := &fakeUpstream{failSnapshot: true}
	clock := &manualClock{now: time.Unix(1700000000, 0)}
	p := newTestProvider(up, clock)

	snapshot := p.GetCurrentMarketData(context.Background())
	if snapshot == nil {
		t.Fatal("expected fallback snapshot, got nil")
	}
	if snapshot.Bitcoin.Price <= 0 {
		t.Fatal("fallback snapshot must carry plausible prices")
	}
	if snapshot.Sentiment.TrendingSentiment == "" {
		t.Fatal("fallback snapshot must carry sentiment")
	}
}

func TestGetCryptoPriceNilOnFailure(t *testing.T) {
	up := &fakeUpstream{failPrices: true}
	clock := &manualClock{now: time.Unix(1700000000, 0)}
	p := newTestProvider(up, clock)

	if price := p.GetCryptoPrice(context.Background(), "BTC"); price != nil {
		t.Fatalf("expected nil on upstream failure, got %+v", price)
	}
}

func TestGetBulkPricesEmptyOnFailure(t *testing.T) {
	up := &fakeUpstream{failPrices: true}
	clock := &manualClock{now: time.Unix(1700000000, 0)}
	p := newTestProvider(up, clock)

	prices := p.GetBulkPrices(context.Background(), []string{"bitcoin", "ethereum"})
	if prices == nil || len(prices) != 0 {
		t.Fatalf("expected empty map, got %v", prices)
	}
}

func TestIDForSymbol(t *testing.T) {
	if IDForSymbol("BTC") != "bitcoin" {
		t.Error("BTC should resolve to bitcoin")
	}
	if IDForSymbol(" eth ") != "ethereum" {
		t.Error("eth should resolve to ethereum")
	}
	if IDForSymbol("unknowncoin") != "unknowncoin" {
		t.Error("unknown symbols pass through")
	}
}
