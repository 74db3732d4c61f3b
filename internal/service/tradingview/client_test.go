package tradingview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"AssetRadar/internal/domain/models"
	"AssetRadar/internal/service/ratelimit"
	"AssetRadar/internal/service/tacache"
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

func f(v float64) *float64 { return &v }

func scanHandler(t *testing.T, calls *int64, values []*float64) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		resp := map[string]interface{}{
			"totalCount": 1,
			"data": []map[string]interface{}{
				{"s": "NASDAQ:AAPL", "d": values},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	cache := tacache.New(nil, time.Hour, testLogger(t))
	return NewClient(url, 5*time.Second, cache, ratelimit.New(1000), nil, testLogger(t))
}

func TestFetchMapsResponse(t *testing.T) {
	var calls int64
	values := []*float64{f(0.6), f(0.2), f(-0.3), f(61.5), f(1.4), f(1.1), f(2.5), f(180.0)}
	srv := httptest.NewServer(scanHandler(t, &calls, values))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	a, err := c.Fetch(context.Background(), "AAPL", "NASDAQ", "america", models.Interval1d)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if a.Recommendation != models.RecStrongBuy {
		t.Fatalf("recommendation = %s", a.Recommendation)
	}
	if a.Oscillators != models.RecBuy {
		t.Fatalf("oscillators = %s", a.Oscillators)
	}
	if a.MovingAverages != models.RecSell {
		t.Fatalf("moving averages = %s", a.MovingAverages)
	}
	if a.RSI != 61.5 {
		t.Fatalf("rsi = %v", a.RSI)
	}
	if got := a.MACDHist; got < 0.299 || got > 0.301 {
		t.Fatalf("macd hist = %v", got)
	}
	if atr, ok := a.ATR(); !ok || atr != 2.5 {
		t.Fatalf("atr = %v ok=%v", atr, ok)
	}
	if cl, ok := a.Close(); !ok || cl != 180.0 {
		t.Fatalf("close = %v ok=%v", cl, ok)
	}
}

func TestFetchDefaultsOnNullIndicators(t *testing.T) {
	var calls int64
	values := []*float64{nil, nil, nil, nil, nil, nil, nil, nil}
	srv := httptest.NewServer(scanHandler(t, &calls, values))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	a, err := c.Fetch(context.Background(), "AAPL", "NASDAQ", "america", models.Interval1d)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if a.Recommendation != models.RecNone {
		t.Fatalf("recommendation = %s", a.Recommendation)
	}
	if a.RSI != 50 {
		t.Fatalf("rsi default = %v", a.RSI)
	}
	if a.MACDHist != 0 {
		t.Fatalf("macd default = %v", a.MACDHist)
	}
	if _, ok := a.ATR(); ok {
		t.Fatal("expected no ATR")
	}
}

func TestFetchUsesCacheOnSecondCall(t *testing.T) {
	var calls int64
	values := []*float64{f(0.0), f(0.0), f(0.0), f(50.0), f(0.0), f(0.0), f(1.0), f(10.0)}
	srv := httptest.NewServer(scanHandler(t, &calls, values))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(context.Background(), "AAPL", "NASDAQ", "america", models.Interval1d); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestFetchErrorNotCached(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), "AAPL", "NASDAQ", "america", models.Interval1d)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if fe.Symbol != "AAPL" || fe.Exchange != "NASDAQ" {
			t.Fatalf("unexpected error fields %+v", fe)
		}
	}

	// Both attempts hit the provider: failures must not be cached.
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestFetchEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalCount":0,"data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Fetch(context.Background(), "NOPE", "NASDAQ", "america", models.Interval1d); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestRecommendLabelRanges(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{1.0, models.RecStrongBuy},
		{0.51, models.RecStrongBuy},
		{0.5, models.RecBuy},
		{0.11, models.RecBuy},
		{0.1, models.RecNeutral},
		{0.0, models.RecNeutral},
		{-0.1, models.RecNeutral},
		{-0.11, models.RecSell},
		{-0.5, models.RecSell},
		{-0.51, models.RecStrongSell},
		{-1.0, models.RecStrongSell},
	}
	for _, tc := range cases {
		if got := recommendLabel(tc.v); got != tc.want {
			t.Fatalf("recommendLabel(%v) = %s, want %s", tc.v, got, tc.want)
		}
	}
}

func TestColumnsFor(t *testing.T) {
	daily := columnsFor(models.Interval1d)
	if daily[0] != "Recommend.All" {
		t.Fatalf("daily columns unsuffixed, got %s", daily[0])
	}
	weekly := columnsFor(models.Interval1w)
	if weekly[0] != "Recommend.All|1W" {
		t.Fatalf("weekly columns suffixed, got %s", weekly[0])
	}
}
