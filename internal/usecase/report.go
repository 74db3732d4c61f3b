package usecase

import (
	"fmt"
	"strings"

	"AssetRadar/internal/domain/models"
)

// FormatReport renders a run result as the multi-line text block sent to the
// messaging channel and email.
func FormatReport(r *models.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Asset report %s\n", r.StartedAt.Format("2006-01-02 15:04"))

	writeRanked(&b, "Best stocks", r.BestStocks)
	writeRanked(&b, "Best cryptos", r.BestCryptos)
	writeRanked(&b, "Top stocks", r.TopStocks)
	writeRanked(&b, "Top cryptos", r.TopCryptos)
	writeWallet(&b, "Wallet stocks", r.WalletStocks)
	writeWallet(&b, "Wallet cryptos", r.WalletCryptos)

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped: %s\n", strings.Join(r.Skipped, ", "))
	}

	return b.String()
}

func writeRanked(b *strings.Builder, title string, records []models.AssetRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, r := range records {
		fmt.Fprintf(b, "%d. %s [%s] score %d, %s, horizon %s%s\n",
			i+1, r.Ticker, r.Venue.Exchange, r.Score, r.DailyRecommendation, r.Horizon, priceSuffix(r))
	}
}

func writeWallet(b *strings.Builder, title string, records []models.AssetRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, r := range records {
		fmt.Fprintf(b, "- %s: %s (score %d)%s\n",
			r.Ticker, r.DailyRecommendation, r.Score, priceSuffix(r))
	}
}

func priceSuffix(r models.AssetRecord) string {
	if r.Price == nil {
		return ""
	}
	s := fmt.Sprintf(", price %.2f", *r.Price)
	if r.TakeProfit != nil {
		s += fmt.Sprintf(", take profit %.2f", *r.TakeProfit)
	}
	return s
}
