package yahoo

import (
	"context"
	"strings"
	"time"

	"AssetRadar/internal/domain/models"
	pkghttp "AssetRadar/pkg/http"
	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/metrics"
)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// Client resolves current prices from the market-data chart API.
type Client struct {
	http    *pkghttp.Client
	baseURL string
	metrics *metrics.Metrics
	logger  *applogger.Logger
}

func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, l *applogger.Logger) *Client {
	return &Client{
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: m,
		logger:  l,
	}
}

// Price returns the latest daily close for the symbol. Crypto symbols in the
// analysis-provider convention (ticker+"USDT") are mapped to the market-data
// convention (ticker+"-USD") first. When the provider has no usable close,
// the fallback analysis' own close indicator is used. Absence is reported as
// (0, false), never an error.
func (c *Client) Price(ctx context.Context, symbol string, class models.AssetClass, fallback *models.Analysis) (float64, bool) {
	query := symbol
	if class == models.ClassCrypto {
		query = MarketDataSymbol(symbol)
	}

	if price, ok := c.latestClose(ctx, query); ok {
		return price, true
	}

	if cl, ok := fallback.Close(); ok {
		return cl, true
	}

	return 0, false
}

func (c *Client) latestClose(ctx context.Context, symbol string) (float64, bool) {
	var resp chartResponse

	start := time.Now()
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/v8/finance/chart/" + symbol,
		QueryParams: map[string][]string{
			"range":    {"1d"},
			"interval": {"1d"},
		},
	}, &resp)
	if c.metrics != nil {
		c.metrics.ObserveSource("yahoo", err, time.Since(start))
	}
	if err != nil {
		c.logger.Warn("price fetch failed",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return 0, false
	}

	if len(resp.Chart.Result) == 0 {
		return 0, false
	}
	result := resp.Chart.Result[0]

	// Last non-null close of the daily series.
	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] != nil {
				return *closes[i], true
			}
		}
	}

	if result.Meta.RegularMarketPrice != nil {
		return *result.Meta.RegularMarketPrice, true
	}

	return 0, false
}

// MarketDataSymbol converts a crypto analysis symbol (ticker+"USDT") into the
// market-data spot pair (ticker+"-USD").
func MarketDataSymbol(symbol string) string {
	base := strings.TrimSuffix(strings.ToUpper(symbol), "USDT")
	return base + "-USD"
}
