package repository

import (
	"context"
	"fmt"
	"testing"

	"AssetRadar/internal/domain/models"
)

func TestMemoryHistoryRing(t *testing.T) {
	h := NewMemoryHistory(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = h.Save(ctx, &models.RunResult{ID: fmt.Sprintf("run-%d", i)})
	}

	latest, err := h.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != "run-4" {
		t.Fatalf("latest = %s", latest.ID)
	}

	last, err := h.Last(ctx, 10)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if len(last) != 3 {
		t.Fatalf("ring should cap at 3, got %d", len(last))
	}
	if last[0].ID != "run-4" || last[2].ID != "run-2" {
		t.Fatalf("order %s..%s", last[0].ID, last[2].ID)
	}
}

func TestMemoryHistoryEmpty(t *testing.T) {
	h := NewMemoryHistory(10)

	latest, err := h.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil latest, got %+v", latest)
	}
}
