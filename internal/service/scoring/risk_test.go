package scoring

import "testing"

func TestTakeProfitFixed(t *testing.T) {
	got := TakeProfitFixed(100, -0.30, 3.0)
	if got != 190.0 {
		t.Fatalf("take profit = %v, want 190.0", got)
	}
}

func TestTakeProfitATR(t *testing.T) {
	got := TakeProfitATR(100, 2, 1.5, 2.0)
	if got != 106.0 {
		t.Fatalf("take profit = %v, want 106.0", got)
	}
}

func TestTakeProfitSelection(t *testing.T) {
	p := DefaultRiskParams()

	if got := p.TakeProfit(100, nil); got != 190.0 {
		t.Fatalf("fixed path = %v, want 190.0", got)
	}

	atr := 2.0
	if got := p.TakeProfit(100, &atr); got != 106.0 {
		t.Fatalf("atr path = %v, want 106.0", got)
	}
}
