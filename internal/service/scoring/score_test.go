package scoring

import (
	"testing"

	"AssetRadar/internal/domain/models"
)

func analysis(rec string, rsi, macd float64, ma string, atr *float64) *models.Analysis {
	a := &models.Analysis{
		Recommendation: rec,
		RSI:            rsi,
		MACDHist:       macd,
		MovingAverages: ma,
		Indicators:     map[string]float64{},
	}
	if atr != nil {
		a.Indicators["ATR"] = *atr
	}
	return a
}

func atr(v float64) *float64 { return &v }

func TestScoreClampsAtHundred(t *testing.T) {
	// 50+20+10+10+10+5 = 105, clamped.
	daily := analysis(models.RecStrongBuy, 50, 1, models.RecBuy, atr(0.5))
	if got := Score(daily, nil); got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
}

func TestScoreBearish(t *testing.T) {
	// 50-20+10-1+... : RSI 50 gives +10, MACD -1 gives -10, MA SELL -10, ATR 3 gives -5.
	daily := analysis(models.RecStrongSell, 50, -1, models.RecSell, atr(3))
	if got := Score(daily, nil); got != 15 {
		t.Fatalf("score = %d, want 15", got)
	}
}

func TestScoreWeeklyBonus(t *testing.T) {
	daily := analysis(models.RecNeutral, 50, 0, models.RecNeutral, nil)
	weekly := analysis(models.RecStrongBuy, 50, 0, models.RecNeutral, nil)
	base := Score(daily, nil)
	if got := Score(daily, weekly); got != base+10 {
		t.Fatalf("weekly STRONG_BUY bonus: got %d, base %d", got, base)
	}

	weekly.Recommendation = models.RecStrongSell
	if got := Score(daily, weekly); got != base-10 {
		t.Fatalf("weekly STRONG_SELL penalty: got %d, base %d", got, base)
	}
}

func TestScoreRSISymmetry(t *testing.T) {
	lo := analysis(models.RecNeutral, 30, 0, models.RecNeutral, nil)
	hi := analysis(models.RecNeutral, 70, 0, models.RecNeutral, nil)
	if Score(lo, nil) != Score(hi, nil) {
		t.Fatal("RSI adjustment should be symmetric around 50")
	}
}

func TestScoreTruncatesTowardZero(t *testing.T) {
	// RSI 51: adjustment 10 - 0.5 = 9.5, total 59.5 -> 59.
	daily := analysis(models.RecNeutral, 51, 0, models.RecNeutral, nil)
	if got := Score(daily, nil); got != 59 {
		t.Fatalf("score = %d, want truncated 59", got)
	}
}

func TestScoreClampsAtZero(t *testing.T) {
	daily := analysis(models.RecStrongSell, 0, -1, models.RecStrongSell, atr(5))
	weekly := analysis(models.RecStrongSell, 50, 0, models.RecNeutral, nil)
	if got := Score(daily, weekly); got != 0 {
		t.Fatalf("score = %d, want 0", got)
	}
}

func TestScoreIdempotent(t *testing.T) {
	daily := analysis(models.RecBuy, 62.3, 0.4, models.RecBuy, atr(1.5))
	weekly := analysis(models.RecBuy, 50, 0, models.RecNeutral, nil)
	a, b := Score(daily, weekly), Score(daily, weekly)
	if a != b {
		t.Fatalf("score not idempotent: %d vs %d", a, b)
	}
}

func TestRecPriority(t *testing.T) {
	cases := []struct {
		rec  string
		want int
	}{
		{models.RecStrongBuy, 1},
		{models.RecBuy, 2},
		{models.RecNeutral, 3},
		{models.RecSell, 4},
		{models.RecStrongSell, 5},
		{"N/A", 6},
		{"", 6},
		{"GARBAGE", 6},
	}
	for _, tc := range cases {
		if got := RecPriority(tc.rec); got != tc.want {
			t.Fatalf("RecPriority(%q) = %d, want %d", tc.rec, got, tc.want)
		}
	}
}
