package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"AssetRadar/internal/domain/models"
	"AssetRadar/internal/domain/repository"
	applogger "AssetRadar/pkg/logger"
)

// ErrVenueNotFound is returned when no candidate venue accepts a ticker.
var ErrVenueNotFound = errors.New("venue not found")

const (
	cryptoExchange = "BINANCE"
	cryptoScreener = "crypto"
)

// cryptoTickers is the allowlist for deterministic crypto resolution.
var cryptoTickers = map[string]struct{}{
	"BTC": {}, "ETH": {}, "BNB": {}, "SOL": {}, "XRP": {},
	"ADA": {}, "DOGE": {}, "AVAX": {}, "DOT": {}, "LINK": {},
	"MATIC": {}, "LTC": {}, "UNI": {}, "ATOM": {}, "NEAR": {},
	"APT": {}, "ARB": {}, "OP": {}, "INJ": {}, "TON": {},
}

// equityVenues are probed in priority order; first non-error fetch wins.
var equityVenues = []struct {
	Exchange string
	Screener string
	Suffix   string
}{
	{"NASDAQ", "america", ""},
	{"NYSE", "america", ""},
	{"AMEX", "america", ""},
	{"HKEX", "hongkong", ".HK"},
	{"LSE", "uk", ".L"},
	{"TSE", "japan", ".T"},
}

// venueOverrides maps tickers whose auto-detection is unreliable straight to
// a fully formed venue.
var venueOverrides = map[string]models.Venue{
	"SPX500": {
		Symbol:           "SPX500USD",
		Exchange:         "FOREXCOM",
		Screener:         "cfd",
		MarketDataSymbol: "^GSPC",
		Class:            models.ClassStock,
	},
	"1810.HK": {
		Symbol:           "1810",
		Exchange:         "HKEX",
		Screener:         "hongkong",
		MarketDataSymbol: "1810.HK",
		Class:            models.ClassStock,
	},
	"9988.HK": {
		Symbol:           "9988",
		Exchange:         "HKEX",
		Screener:         "hongkong",
		MarketDataSymbol: "9988.HK",
		Class:            models.ClassStock,
	},
}

// Resolver determines the trading venue and asset class for a bare ticker.
type Resolver struct {
	source   repository.AnalysisSource
	cacheTTL time.Duration
	logger   *applogger.Logger

	mu     sync.Mutex
	cached map[string]resolvedEntry
	now    func() time.Time
}

type resolvedEntry struct {
	venue models.Venue
	at    time.Time
}

// NewResolver creates a resolver. cacheTTL of zero disables resolution
// caching, re-probing every run.
func NewResolver(source repository.AnalysisSource, cacheTTL time.Duration, l *applogger.Logger) *Resolver {
	return &Resolver{
		source:   source,
		cacheTTL: cacheTTL,
		logger:   l,
		cached:   make(map[string]resolvedEntry),
		now:      time.Now,
	}
}

// Resolve maps a ticker to its venue, or ErrVenueNotFound.
func (r *Resolver) Resolve(ctx context.Context, ticker string) (models.Venue, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	if v, ok := venueOverrides[ticker]; ok {
		return v, nil
	}

	if _, ok := cryptoTickers[ticker]; ok {
		return models.Venue{
			Symbol:           ticker + "USDT",
			Exchange:         cryptoExchange,
			Screener:         cryptoScreener,
			MarketDataSymbol: ticker + "-USD",
			Class:            models.ClassCrypto,
		}, nil
	}

	if r.cacheTTL > 0 {
		r.mu.Lock()
		if e, ok := r.cached[ticker]; ok && r.now().Sub(e.at) <= r.cacheTTL {
			r.mu.Unlock()
			return e.venue, nil
		}
		r.mu.Unlock()
	}

	for _, candidate := range equityVenues {
		_, err := r.source.Fetch(ctx, ticker, candidate.Exchange, candidate.Screener, models.Interval1d)
		if err != nil {
			if ctx.Err() != nil {
				return models.Venue{}, ctx.Err()
			}
			continue
		}

		venue := models.Venue{
			Symbol:           ticker,
			Exchange:         candidate.Exchange,
			Screener:         candidate.Screener,
			MarketDataSymbol: ticker + candidate.Suffix,
			Class:            models.ClassStock,
		}
		if r.cacheTTL > 0 {
			r.mu.Lock()
			r.cached[ticker] = resolvedEntry{venue: venue, at: r.now()}
			r.mu.Unlock()
		}
		return venue, nil
	}

	r.logger.Warn("no venue found", applogger.String("ticker", ticker))
	return models.Venue{}, ErrVenueNotFound
}
