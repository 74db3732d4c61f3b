package models

import "time"

// Interval is a technical-analysis timeframe granularity.
type Interval string

const (
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1W"
)

// Recommendation labels as emitted by the technical-analysis provider.
const (
	RecStrongBuy  = "STRONG_BUY"
	RecBuy        = "BUY"
	RecNeutral    = "NEUTRAL"
	RecSell       = "SELL"
	RecStrongSell = "STRONG_SELL"
	RecNone       = "N/A"
)

// Analysis is one provider result for a (symbol, exchange, interval).
type Analysis struct {
	Symbol         string             `json:"symbol"`
	Exchange       string             `json:"exchange"`
	Screener       string             `json:"screener"`
	Interval       Interval           `json:"interval"`
	Recommendation string             `json:"recommendation"`
	Oscillators    string             `json:"oscillators"`
	MovingAverages string             `json:"moving_averages"`
	RSI            float64            `json:"rsi"`
	MACDHist       float64            `json:"macd_hist"`
	Indicators     map[string]float64 `json:"indicators,omitempty"`
	FetchedAt      time.Time          `json:"fetched_at"`
}

// ATR returns the average-true-range indicator when the provider sent one.
func (a *Analysis) ATR() (float64, bool) {
	if a == nil || a.Indicators == nil {
		return 0, false
	}
	v, ok := a.Indicators["ATR"]
	return v, ok
}

// Close returns the provider's own close price when present.
func (a *Analysis) Close() (float64, bool) {
	if a == nil || a.Indicators == nil {
		return 0, false
	}
	v, ok := a.Indicators["close"]
	return v, ok
}
