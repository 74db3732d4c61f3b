package repository

import (
	"context"
	"sync"

	"AssetRadar/internal/domain/models"
)

// MemoryHistory keeps the most recent run results in memory.
type MemoryHistory struct {
	mu      sync.Mutex
	results []*models.RunResult
	limit   int
}

func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = 10
	}
	return &MemoryHistory{limit: limit}
}

func (h *MemoryHistory) Save(ctx context.Context, result *models.RunResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append(h.results, result)
	if len(h.results) > h.limit {
		h.results = h.results[len(h.results)-h.limit:]
	}
	return nil
}

func (h *MemoryHistory) Latest(ctx context.Context) (*models.RunResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.results) == 0 {
		return nil, nil
	}
	return h.results[len(h.results)-1], nil
}

// Last returns up to n results, newest first.
func (h *MemoryHistory) Last(ctx context.Context, n int) ([]*models.RunResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > len(h.results) {
		n = len(h.results)
	}
	out := make([]*models.RunResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, h.results[len(h.results)-1-i])
	}
	return out, nil
}
