package scoring

import (
	"math"

	"AssetRadar/internal/domain/models"
)

// Score maps a daily (and optional weekly) analysis to an integer in
// [0,100]. Additive model over a base of 50; the final value is clamped and
// truncated toward zero, not rounded.
func Score(daily, weekly *models.Analysis) int {
	score := 50.0

	switch daily.Recommendation {
	case models.RecStrongBuy:
		score += 20
	case models.RecBuy:
		score += 10
	case models.RecSell:
		score -= 10
	case models.RecStrongSell:
		score -= 20
	}

	score += 10 - math.Abs(daily.RSI-50)*0.5

	if daily.MACDHist > 0 {
		score += 10
	} else if daily.MACDHist < 0 {
		score -= 10
	}

	switch daily.MovingAverages {
	case models.RecBuy, models.RecStrongBuy:
		score += 10
	case models.RecSell, models.RecStrongSell:
		score -= 10
	}

	if atr, ok := daily.ATR(); ok {
		if atr < 1 {
			score += 5
		} else if atr > 2 {
			score -= 5
		}
	}

	if weekly != nil {
		switch weekly.Recommendation {
		case models.RecStrongBuy:
			score += 10
		case models.RecBuy:
			score += 5
		case models.RecSell:
			score -= 5
		case models.RecStrongSell:
			score -= 10
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score)
}

// RecPriority ranks a recommendation for ascending sorts; lower is better.
func RecPriority(rec string) int {
	switch rec {
	case models.RecStrongBuy:
		return 1
	case models.RecBuy:
		return 2
	case models.RecNeutral:
		return 3
	case models.RecSell:
		return 4
	case models.RecStrongSell:
		return 5
	default:
		return 6
	}
}
