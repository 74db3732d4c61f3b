package scoring

import "math"

// RiskParams holds the take-profit model parameters.
type RiskParams struct {
	StopLossPercent float64
	RiskRewardRatio float64
	ATRMultiplier   float64
	ATRRiskReward   float64
}

// DefaultRiskParams returns the pipeline-wide defaults.
func DefaultRiskParams() RiskParams {
	return RiskParams{
		StopLossPercent: -0.30,
		RiskRewardRatio: 3.0,
		ATRMultiplier:   1.5,
		ATRRiskReward:   2.0,
	}
}

// TakeProfitFixed computes a multiplicative percentage target from a fixed
// stop-loss percentage.
func TakeProfitFixed(price, stopLossPercent, riskReward float64) float64 {
	return price * (1 + math.Abs(stopLossPercent)*riskReward)
}

// TakeProfitATR computes an additive dollar target from the ATR volatility
// measure. The asymmetry with TakeProfitFixed is intentional.
func TakeProfitATR(price, atr, multiplier, riskReward float64) float64 {
	return price + riskReward*(multiplier*atr)
}

// TakeProfit selects the ATR-based target when an ATR is known, else the
// fixed-percentage target.
func (p RiskParams) TakeProfit(price float64, atr *float64) float64 {
	if atr != nil {
		return TakeProfitATR(price, *atr, p.ATRMultiplier, p.ATRRiskReward)
	}
	return TakeProfitFixed(price, p.StopLossPercent, p.RiskRewardRatio)
}
