package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"AssetRadar/internal/domain/models"
	"AssetRadar/internal/service/scoring"
)

func newTestAnalyzer(t *testing.T, cfg AnalyzerConfig, src *fakeSource, prices *fakePrices, msg *fakeMessenger, hist *fakeHistory) *Analyzer {
	t.Helper()
	l := testLogger(t)
	return NewAnalyzer(
		cfg,
		NewResolver(src, 0, l),
		src,
		NewHorizonEvaluator(src),
		prices,
		msg,
		nil,
		hist,
		nil,
		NewStatusTracker(nil),
		nil,
		l,
	)
}

func TestRunEndToEnd(t *testing.T) {
	src := newFakeSource()
	src.addAllIntervals("AAPL", "NASDAQ", models.RecBuy)
	src.addAllIntervals("BTCUSDT", "BINANCE", models.RecStrongBuy)
	src.addAllIntervals("KO", "NYSE", models.RecNeutral)

	prices := &fakePrices{prices: map[string]float64{
		"AAPL":    180,
		"BTCUSDT": 40000,
		"KO":      60,
	}}
	msg := &fakeMessenger{}
	hist := &fakeHistory{}

	a := newTestAnalyzer(t, AnalyzerConfig{
		Workers:      4,
		TopStocks:    []string{"AAPL", "GHOST"},
		TopCryptos:   []string{"BTC"},
		WalletStocks: []string{"KO"},
		Risk:         scoring.DefaultRiskParams(),
	}, src, prices, msg, hist)

	result, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.TopStocks) != 1 || result.TopStocks[0].Ticker != "AAPL" {
		t.Fatalf("top stocks %+v", result.TopStocks)
	}
	if len(result.TopCryptos) != 1 || result.TopCryptos[0].Ticker != "BTC" {
		t.Fatalf("top cryptos %+v", result.TopCryptos)
	}

	// GHOST resolves nowhere and is skipped, never surfacing in any output.
	found := false
	for _, s := range result.Skipped {
		if s == "GHOST" {
			found = true
		}
	}
	if !found {
		t.Fatalf("GHOST missing from skipped: %v", result.Skipped)
	}

	// Ranked subsets are enriched with price and take-profit.
	aapl := result.TopStocks[0]
	if aapl.Price == nil || *aapl.Price != 180 {
		t.Fatalf("AAPL price %+v", aapl.Price)
	}
	if aapl.TakeProfit == nil {
		t.Fatal("AAPL take profit missing")
	}

	// Wallet assets are enriched regardless of rank.
	if len(result.WalletStocks) != 1 || result.WalletStocks[0].Price == nil {
		t.Fatalf("wallet stocks %+v", result.WalletStocks)
	}

	// Report delivered with replacePrevious and run persisted.
	if len(msg.sent) != 1 || !msg.repl[0] {
		t.Fatalf("messenger sent=%d repl=%v", len(msg.sent), msg.repl)
	}
	if !strings.Contains(msg.sent[0], "AAPL") {
		t.Fatalf("report missing AAPL: %q", msg.sent[0])
	}
	if len(hist.saved) != 1 {
		t.Fatalf("history saved %d", len(hist.saved))
	}
	if result.Status != models.RunCompleted {
		t.Fatalf("status %s", result.Status)
	}
}

func TestRunExcludesZeroScores(t *testing.T) {
	src := newFakeSource()
	// Worst case daily: 50-20-15-10-10-5 clamps to 0.
	src.add("BAD", "NASDAQ", models.Interval1d, &models.Analysis{
		Recommendation: models.RecStrongSell,
		MovingAverages: models.RecStrongSell,
		RSI:            0,
		MACDHist:       -1,
		Indicators:     map[string]float64{"ATR": 5},
	})
	src.addAllIntervals("AAPL", "NASDAQ", models.RecBuy)

	a := newTestAnalyzer(t, AnalyzerConfig{
		Workers:   2,
		TopStocks: []string{"BAD", "AAPL"},
		Risk:      scoring.DefaultRiskParams(),
	}, src, &fakePrices{}, &fakeMessenger{}, &fakeHistory{})

	result, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, r := range result.TopStocks {
		if r.Ticker == "BAD" {
			t.Fatal("zero-score asset must be excluded, not deprioritized")
		}
	}
	if len(result.TopStocks) != 1 {
		t.Fatalf("top stocks %+v", result.TopStocks)
	}
}

func TestRunRanksAndTruncates(t *testing.T) {
	src := newFakeSource()
	tickers := []string{"BTC", "ETH", "SOL", "ADA"}
	recs := []string{models.RecNeutral, models.RecStrongBuy, models.RecBuy, models.RecSell}
	for i, tk := range tickers {
		src.addAllIntervals(tk+"USDT", "BINANCE", recs[i])
	}

	a := newTestAnalyzer(t, AnalyzerConfig{
		Workers:    2,
		TopN:       3,
		BestN:      2,
		TopCryptos: tickers,
		Risk:       scoring.DefaultRiskParams(),
	}, src, &fakePrices{}, &fakeMessenger{}, &fakeHistory{})

	result, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.TopCryptos) != 3 {
		t.Fatalf("expected truncation to 3, got %d", len(result.TopCryptos))
	}
	for i := 1; i < len(result.TopCryptos); i++ {
		if result.TopCryptos[i].Score > result.TopCryptos[i-1].Score {
			t.Fatalf("not sorted descending: %+v", result.TopCryptos)
		}
	}
	if result.TopCryptos[0].Ticker != "ETH" {
		t.Fatalf("highest scorer first, got %s", result.TopCryptos[0].Ticker)
	}
	if len(result.BestCryptos) != 2 {
		t.Fatalf("best = %d, want 2", len(result.BestCryptos))
	}
}

func TestRunWalletSortedByPriority(t *testing.T) {
	src := newFakeSource()
	src.addAllIntervals("BTCUSDT", "BINANCE", models.RecSell)
	src.addAllIntervals("ETHUSDT", "BINANCE", models.RecStrongBuy)
	src.addAllIntervals("SOLUSDT", "BINANCE", models.RecNeutral)

	a := newTestAnalyzer(t, AnalyzerConfig{
		Workers:       2,
		WalletCryptos: []string{"BTC", "ETH", "SOL"},
		Risk:          scoring.DefaultRiskParams(),
	}, src, &fakePrices{}, &fakeMessenger{}, &fakeHistory{})

	result, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.WalletCryptos) != 3 {
		t.Fatalf("wallet unfiltered, got %d", len(result.WalletCryptos))
	}
	got := []string{result.WalletCryptos[0].Ticker, result.WalletCryptos[1].Ticker, result.WalletCryptos[2].Ticker}
	want := []string{"ETH", "SOL", "BTC"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wallet order %v, want %v", got, want)
		}
	}
}

// blockingSource blocks the first daily fetch until released.
type blockingSource struct {
	*fakeSource
	gate chan struct{}
	once sync.Once
}

func (b *blockingSource) Fetch(ctx context.Context, symbol, exchange, screener string, interval models.Interval) (*models.Analysis, error) {
	b.once.Do(func() { <-b.gate })
	return b.fakeSource.Fetch(ctx, symbol, exchange, screener, interval)
}

func TestRunRejectsConcurrent(t *testing.T) {
	src := newFakeSource()
	src.addAllIntervals("BTCUSDT", "BINANCE", models.RecBuy)
	blocking := &blockingSource{fakeSource: src, gate: make(chan struct{})}

	l := testLogger(t)
	a := NewAnalyzer(
		AnalyzerConfig{Workers: 1, TopCryptos: []string{"BTC"}, Risk: scoring.DefaultRiskParams()},
		NewResolver(blocking, 0, l),
		blocking,
		NewHorizonEvaluator(blocking),
		&fakePrices{},
		&fakeMessenger{},
		nil,
		&fakeHistory{},
		nil,
		NewStatusTracker(nil),
		nil,
		l,
	)

	done := make(chan error, 1)
	go func() {
		_, err := a.Run(context.Background(), "first")
		done <- err
	}()

	// Wait until the first run is inside the blocked fetch.
	for !a.Running() {
		time.Sleep(time.Millisecond)
	}

	if _, err := a.Run(context.Background(), "second"); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	close(blocking.gate)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

func TestTriggerRejectsBackToBack(t *testing.T) {
	src := newFakeSource()
	src.addAllIntervals("BTCUSDT", "BINANCE", models.RecBuy)
	blocking := &blockingSource{fakeSource: src, gate: make(chan struct{})}

	l := testLogger(t)
	hist := &fakeHistory{}
	a := NewAnalyzer(
		AnalyzerConfig{Workers: 1, TopCryptos: []string{"BTC"}, Risk: scoring.DefaultRiskParams()},
		NewResolver(blocking, 0, l),
		blocking,
		NewHorizonEvaluator(blocking),
		&fakePrices{},
		&fakeMessenger{},
		nil,
		hist,
		nil,
		NewStatusTracker(nil),
		nil,
		l,
	)

	// The guard is taken before Trigger returns, so the second call is
	// rejected even though the run goroutine may not have started yet.
	if err := a.Trigger("first"); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if err := a.Trigger("second"); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	close(blocking.gate)
	for a.Running() {
		time.Sleep(time.Millisecond)
	}

	if len(hist.saved) != 1 {
		t.Fatalf("runs executed = %d, want 1", len(hist.saved))
	}
	if err := a.Trigger("third"); err != nil {
		t.Fatalf("trigger after completion: %v", err)
	}
}

func TestRunWeeklyFailureReportsNoRecommendation(t *testing.T) {
	src := newFakeSource()
	// Daily only: the weekly fetch fails and degrades to daily scoring.
	src.add("AAPL", "NASDAQ", models.Interval1d, &models.Analysis{
		Recommendation: models.RecBuy,
		MovingAverages: models.RecBuy,
		RSI:            50,
		MACDHist:       1,
	})

	a := newTestAnalyzer(t, AnalyzerConfig{
		Workers:   2,
		TopStocks: []string{"AAPL"},
		Risk:      scoring.DefaultRiskParams(),
	}, src, &fakePrices{}, &fakeMessenger{}, &fakeHistory{})

	result, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.TopStocks) != 1 {
		t.Fatalf("top stocks %+v", result.TopStocks)
	}
	if got := result.TopStocks[0].WeeklyRecommendation; got != models.RecNone {
		t.Fatalf("weekly recommendation = %q, want %q", got, models.RecNone)
	}
}

func TestRunIDsDistinctWithinSameSecond(t *testing.T) {
	src := newFakeSource()
	src.addAllIntervals("BTCUSDT", "BINANCE", models.RecBuy)

	a := newTestAnalyzer(t, AnalyzerConfig{
		Workers:    2,
		TopCryptos: []string{"BTC"},
		Risk:       scoring.DefaultRiskParams(),
	}, src, &fakePrices{}, &fakeMessenger{}, &fakeHistory{})

	first, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("run IDs collide: %q", first.ID)
	}
}

func TestRunMessengerFailureDoesNotFailRun(t *testing.T) {
	src := newFakeSource()
	src.addAllIntervals("BTCUSDT", "BINANCE", models.RecBuy)

	a := newTestAnalyzer(t, AnalyzerConfig{
		Workers:    2,
		TopCryptos: []string{"BTC"},
		Risk:       scoring.DefaultRiskParams(),
	}, src, &fakePrices{}, &fakeMessenger{fail: true}, &fakeHistory{})

	result, err := a.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("run must complete despite messenger failure: %v", err)
	}
	if result.Status != models.RunCompleted {
		t.Fatalf("status %s", result.Status)
	}
}
