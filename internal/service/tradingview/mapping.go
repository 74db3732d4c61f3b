package tradingview

import "AssetRadar/internal/domain/models"

// Scanner columns requested per symbol. Non-daily intervals get the interval
// suffixed to each column name; the daily interval uses the bare names.
var baseColumns = []string{
	"Recommend.All",
	"Recommend.Other",
	"Recommend.MA",
	"RSI",
	"MACD.macd",
	"MACD.signal",
	"ATR",
	"close",
}

func columnsFor(interval models.Interval) []string {
	if interval == models.Interval1d {
		return baseColumns
	}
	cols := make([]string, len(baseColumns))
	for i, c := range baseColumns {
		cols[i] = c + "|" + string(interval)
	}
	return cols
}

// recommendLabel converts the provider's numeric recommendation into its
// categorical label.
func recommendLabel(v float64) string {
	switch {
	case v > 0.5:
		return models.RecStrongBuy
	case v > 0.1:
		return models.RecBuy
	case v >= -0.1:
		return models.RecNeutral
	case v >= -0.5:
		return models.RecSell
	default:
		return models.RecStrongSell
	}
}
