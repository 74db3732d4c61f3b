package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"AssetRadar/internal/domain/models"
)

func TestResolveCrypto(t *testing.T) {
	r := NewResolver(newFakeSource(), 0, testLogger(t))

	v, err := r.Resolve(context.Background(), "btc")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v.Symbol != "BTCUSDT" || v.Exchange != "BINANCE" || v.Screener != "crypto" {
		t.Fatalf("unexpected venue %+v", v)
	}
	if v.MarketDataSymbol != "BTC-USD" {
		t.Fatalf("market data symbol %s", v.MarketDataSymbol)
	}
	if v.Class != models.ClassCrypto {
		t.Fatalf("class %s", v.Class)
	}
}

func TestResolveEquityProbeOrder(t *testing.T) {
	src := newFakeSource()
	// Listed only on NYSE: NASDAQ probe fails first.
	src.add("KO", "NYSE", models.Interval1d, &models.Analysis{Recommendation: models.RecBuy})

	r := NewResolver(src, 0, testLogger(t))
	v, err := r.Resolve(context.Background(), "KO")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v.Exchange != "NYSE" || v.Screener != "america" {
		t.Fatalf("unexpected venue %+v", v)
	}
	if v.MarketDataSymbol != "KO" {
		t.Fatalf("US symbol should be unsuffixed, got %s", v.MarketDataSymbol)
	}

	// NASDAQ was probed before NYSE.
	if src.calls[0] != "NASDAQ:KO:1d" || src.calls[1] != "NYSE:KO:1d" {
		t.Fatalf("probe order %v", src.calls)
	}
}

func TestResolveEquitySuffix(t *testing.T) {
	src := newFakeSource()
	src.add("0700", "HKEX", models.Interval1d, &models.Analysis{Recommendation: models.RecBuy})

	r := NewResolver(src, 0, testLogger(t))
	v, err := r.Resolve(context.Background(), "0700")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v.MarketDataSymbol != "0700.HK" {
		t.Fatalf("HK symbol suffix missing, got %s", v.MarketDataSymbol)
	}
}

func TestResolveOverride(t *testing.T) {
	src := newFakeSource()
	r := NewResolver(src, 0, testLogger(t))

	v, err := r.Resolve(context.Background(), "SPX500")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v.Exchange != "FOREXCOM" || v.MarketDataSymbol != "^GSPC" {
		t.Fatalf("unexpected override venue %+v", v)
	}
	// Overrides bypass probing entirely.
	if src.callCount() != 0 {
		t.Fatalf("override should not probe, %d calls", src.callCount())
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(newFakeSource(), 0, testLogger(t))

	_, err := r.Resolve(context.Background(), "NOSUCH")
	if !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}
}

func TestResolveReprobesWithoutCache(t *testing.T) {
	src := newFakeSource()
	src.add("AAPL", "NASDAQ", models.Interval1d, &models.Analysis{Recommendation: models.RecBuy})

	r := NewResolver(src, 0, testLogger(t))
	for i := 0; i < 2; i++ {
		if _, err := r.Resolve(context.Background(), "AAPL"); err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
	}
	if src.callCount() != 2 {
		t.Fatalf("expected re-probe each run, got %d calls", src.callCount())
	}
}

func TestResolveCachesWithTTL(t *testing.T) {
	src := newFakeSource()
	src.add("AAPL", "NASDAQ", models.Interval1d, &models.Analysis{Recommendation: models.RecBuy})

	r := NewResolver(src, time.Hour, testLogger(t))
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background(), "AAPL"); err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
	}
	if src.callCount() != 1 {
		t.Fatalf("expected one probe with cache enabled, got %d", src.callCount())
	}
}
