package tradingview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"AssetRadar/internal/domain/models"
	"AssetRadar/internal/service/ratelimit"
	"AssetRadar/internal/service/tacache"
	pkghttp "AssetRadar/pkg/http"
	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/metrics"
)

// FetchError is a provider-level failure for one symbol. It is returned
// immediately and never cached, so the next access retries.
type FetchError struct {
	Symbol   string
	Exchange string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("analysis fetch %s:%s: %v", e.Exchange, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type scanRequest struct {
	Symbols struct {
		Tickers []string `json:"tickers"`
	} `json:"symbols"`
	Columns []string `json:"columns"`
}

type scanResponse struct {
	TotalCount int `json:"totalCount"`
	Data       []struct {
		Symbol string     `json:"s"`
		Values []*float64 `json:"d"`
	} `json:"data"`
}

// Client fetches technical-analysis results from the scanner API, with the
// shared rate limiter and write-through cache wrapped around every call.
type Client struct {
	http    *pkghttp.Client
	baseURL string
	cache   *tacache.Cache
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
	logger  *applogger.Logger
}

func NewClient(baseURL string, timeout time.Duration, cache *tacache.Cache, limiter *ratelimit.Limiter, m *metrics.Metrics, l *applogger.Logger) *Client {
	return &Client{
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
		limiter: limiter,
		metrics: m,
		logger:  l,
	}
}

// Fetch returns the analysis for (symbol, exchange, interval), consulting the
// cache first and going to the provider on a miss.
func (c *Client) Fetch(ctx context.Context, symbol, exchange, screener string, interval models.Interval) (*models.Analysis, error) {
	key := tacache.Key(symbol, exchange, screener, interval)
	if a, ok := c.cache.Get(key); ok {
		if c.metrics != nil {
			c.metrics.ObserveCache("hit")
		}
		return a, nil
	}
	if c.metrics != nil {
		c.metrics.ObserveCache("miss")
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, &FetchError{Symbol: symbol, Exchange: exchange, Err: err}
	}

	start := time.Now()
	a, err := c.scan(ctx, symbol, exchange, screener, interval)
	if c.metrics != nil {
		c.metrics.ObserveSource("tradingview", err, time.Since(start))
	}
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Exchange: exchange, Err: err}
	}

	c.cache.Set(key, a)
	return a, nil
}

func (c *Client) scan(ctx context.Context, symbol, exchange, screener string, interval models.Interval) (*models.Analysis, error) {
	req := scanRequest{Columns: columnsFor(interval)}
	req.Symbols.Tickers = []string{exchange + ":" + strings.ToUpper(symbol)}

	var resp scanResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    fmt.Sprintf("%s/%s/scan", c.baseURL, screener),
		Body:   req,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Values) < len(baseColumns) {
		return nil, fmt.Errorf("no data for %s:%s", exchange, strings.ToUpper(symbol))
	}

	return c.mapAnalysis(symbol, exchange, screener, interval, resp.Data[0].Values), nil
}

func (c *Client) mapAnalysis(symbol, exchange, screener string, interval models.Interval, values []*float64) *models.Analysis {
	a := &models.Analysis{
		Symbol:         strings.ToUpper(symbol),
		Exchange:       exchange,
		Screener:       screener,
		Interval:       interval,
		Recommendation: models.RecNone,
		Oscillators:    models.RecNone,
		MovingAverages: models.RecNone,
		RSI:            50,
		MACDHist:       0,
		Indicators:     make(map[string]float64),
		FetchedAt:      time.Now(),
	}

	// Column order matches baseColumns.
	if v := values[0]; v != nil {
		a.Recommendation = recommendLabel(*v)
	}
	if v := values[1]; v != nil {
		a.Oscillators = recommendLabel(*v)
	}
	if v := values[2]; v != nil {
		a.MovingAverages = recommendLabel(*v)
	}
	if v := values[3]; v != nil {
		a.RSI = *v
	}
	if macd, sig := values[4], values[5]; macd != nil && sig != nil {
		a.MACDHist = *macd - *sig
	}
	if v := values[6]; v != nil {
		a.Indicators["ATR"] = *v
	}
	if v := values[7]; v != nil {
		a.Indicators["close"] = *v
	}

	return a
}
