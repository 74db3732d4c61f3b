package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"AssetRadar/internal/domain/models"
	applogger "AssetRadar/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// fakeSource serves canned analyses keyed by "EXCHANGE:SYMBOL:interval".
type fakeSource struct {
	mu       sync.Mutex
	analyses map[string]*models.Analysis
	calls    []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{analyses: make(map[string]*models.Analysis)}
}

func sourceKey(symbol, exchange string, interval models.Interval) string {
	return fmt.Sprintf("%s:%s:%s", exchange, symbol, interval)
}

func (f *fakeSource) add(symbol, exchange string, interval models.Interval, a *models.Analysis) {
	a.Symbol = symbol
	a.Exchange = exchange
	a.Interval = interval
	f.analyses[sourceKey(symbol, exchange, interval)] = a
}

func (f *fakeSource) addAllIntervals(symbol, exchange, rec string) {
	for _, iv := range []models.Interval{models.Interval15m, models.Interval1h, models.Interval1d, models.Interval1w} {
		f.add(symbol, exchange, iv, &models.Analysis{
			Recommendation: rec,
			MovingAverages: models.RecNeutral,
			RSI:            50,
			Indicators:     map[string]float64{"close": 100},
		})
	}
}

func (f *fakeSource) Fetch(ctx context.Context, symbol, exchange, screener string, interval models.Interval) (*models.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := sourceKey(symbol, exchange, interval)
	f.calls = append(f.calls, key)
	if a, ok := f.analyses[key]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("no data for %s", key)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakePrices returns a fixed price for listed symbols.
type fakePrices struct {
	prices map[string]float64
}

func (f *fakePrices) Price(ctx context.Context, symbol string, class models.AssetClass, fallback *models.Analysis) (float64, bool) {
	if p, ok := f.prices[symbol]; ok {
		return p, true
	}
	if cl, ok := fallback.Close(); ok {
		return cl, true
	}
	return 0, false
}

// fakeMessenger records sent texts.
type fakeMessenger struct {
	mu    sync.Mutex
	sent  []string
	repl  []bool
	fail  bool
	seqID int
}

func (f *fakeMessenger) Send(ctx context.Context, text string, replacePrevious bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("messenger down")
	}
	f.sent = append(f.sent, text)
	f.repl = append(f.repl, replacePrevious)
	f.seqID++
	return f.seqID, nil
}

// fakeHistory records saved results.
type fakeHistory struct {
	mu    sync.Mutex
	saved []*models.RunResult
}

func (f *fakeHistory) Save(ctx context.Context, r *models.RunResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeHistory) Latest(ctx context.Context) (*models.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil, nil
	}
	return f.saved[len(f.saved)-1], nil
}

func (f *fakeHistory) Last(ctx context.Context, n int) ([]*models.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) < n {
		n = len(f.saved)
	}
	return f.saved[len(f.saved)-n:], nil
}
