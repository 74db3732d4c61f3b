package models

// AssetClass distinguishes the two halves of the configured universe.
type AssetClass string

const (
	ClassStock  AssetClass = "stock"
	ClassCrypto AssetClass = "crypto"
)

// Horizon is a recommended holding timeframe.
type Horizon string

const (
	HorizonShort Horizon = "Short"
	HorizonMid   Horizon = "Mid"
	HorizonLong  Horizon = "Long"
)

// SourceTag marks where an evaluated asset came from.
type SourceTag string

const (
	SourceTop    SourceTag = "Top"
	SourceWallet SourceTag = "Wallet"
)

// Venue is the resolved trading venue for a bare ticker.
type Venue struct {
	Symbol           string     `json:"symbol"`
	Exchange         string     `json:"exchange"`
	Screener         string     `json:"screener"`
	MarketDataSymbol string     `json:"market_data_symbol"`
	Class            AssetClass `json:"class"`
}

// AssetRecord is the per-asset pipeline output.
type AssetRecord struct {
	Ticker               string     `json:"ticker"`
	Venue                Venue      `json:"venue"`
	Class                AssetClass `json:"class"`
	DailyRecommendation  string     `json:"daily_recommendation"`
	WeeklyRecommendation string     `json:"weekly_recommendation,omitempty"`
	RSI                  float64    `json:"rsi"`
	MACDHist             float64    `json:"macd_hist"`
	Score                int        `json:"score"`
	RecPriority          int        `json:"rec_priority"`
	Price                *float64   `json:"price,omitempty"`
	TakeProfit           *float64   `json:"take_profit,omitempty"`
	ATR                  *float64   `json:"atr,omitempty"`
	ShortScore           int        `json:"short_score"`
	MidScore             int        `json:"mid_score"`
	LongScore            int        `json:"long_score"`
	Horizon              Horizon    `json:"horizon"`
	Source               SourceTag  `json:"source"`
}
