package repository

import (
	"context"

	"AssetRadar/internal/domain/models"
)

// AnalysisSource fetches one technical-analysis result.
type AnalysisSource interface {
	Fetch(ctx context.Context, symbol, exchange, screener string, interval models.Interval) (*models.Analysis, error)
}

// PriceSource resolves a current tradable price. The boolean reports whether
// a usable price was found; absence is never an error.
type PriceSource interface {
	Price(ctx context.Context, symbol string, class models.AssetClass, fallback *models.Analysis) (float64, bool)
}

// Messenger delivers a block of text to the messaging channel and returns the
// message identifier. replacePrevious removes up to the last two prior
// messages before sending.
type Messenger interface {
	Send(ctx context.Context, text string, replacePrevious bool) (int, error)
}

// Mailer sends a fire-and-forget email.
type Mailer interface {
	Send(subject, body string) error
}

// HistoryStore keeps completed run results for replay.
type HistoryStore interface {
	Save(ctx context.Context, result *models.RunResult) error
	Latest(ctx context.Context) (*models.RunResult, error)
	Last(ctx context.Context, n int) ([]*models.RunResult, error)
}

// ResultPublisher emits a completed run to downstream consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, result *models.RunResult) error
}
