package usecase

import (
	"context"

	"AssetRadar/internal/domain/models"
	"AssetRadar/internal/domain/repository"
	"AssetRadar/internal/service/scoring"
)

// HorizonScores holds the per-timeframe scores and the recommended holding
// horizon.
type HorizonScores struct {
	Short       int
	Mid         int
	Long        int
	Recommended models.Horizon
}

// HorizonEvaluator scores an asset over short, mid and long timeframes.
type HorizonEvaluator struct {
	source repository.AnalysisSource
}

func NewHorizonEvaluator(source repository.AnalysisSource) *HorizonEvaluator {
	return &HorizonEvaluator{source: source}
}

// Evaluate fetches the 15m, 1h, 1d and 1W analyses and scores each horizon.
// A failed fetch scores its horizon 0; a failed weekly fetch degrades the
// long horizon to daily-only scoring.
func (h *HorizonEvaluator) Evaluate(ctx context.Context, venue models.Venue) HorizonScores {
	var scores HorizonScores

	if a, err := h.source.Fetch(ctx, venue.Symbol, venue.Exchange, venue.Screener, models.Interval15m); err == nil {
		scores.Short = scoring.Score(a, nil)
	}
	if a, err := h.source.Fetch(ctx, venue.Symbol, venue.Exchange, venue.Screener, models.Interval1h); err == nil {
		scores.Mid = scoring.Score(a, nil)
	}
	if daily, err := h.source.Fetch(ctx, venue.Symbol, venue.Exchange, venue.Screener, models.Interval1d); err == nil {
		weekly, werr := h.source.Fetch(ctx, venue.Symbol, venue.Exchange, venue.Screener, models.Interval1w)
		if werr != nil {
			weekly = nil
		}
		scores.Long = scoring.Score(daily, weekly)
	}

	scores.Recommended = recommendedHorizon(scores)
	return scores
}

// recommendedHorizon is a stable argmax: ties resolve to the first of
// Short, Mid, Long.
func recommendedHorizon(s HorizonScores) models.Horizon {
	best, horizon := s.Short, models.HorizonShort
	if s.Mid > best {
		best, horizon = s.Mid, models.HorizonMid
	}
	if s.Long > best {
		horizon = models.HorizonLong
	}
	return horizon
}
