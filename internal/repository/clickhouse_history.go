package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"AssetRadar/internal/domain/models"
	"AssetRadar/pkg/clickhouse"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS run_history (
    id          String,
    trigger     String,
    started_at  DateTime64(3),
    finished_at DateTime64(3),
    status      String,
    payload     String
) ENGINE = MergeTree()
ORDER BY started_at
`

// ClickHouseHistory persists run results for replay. The full result is
// stored as a JSON payload next to queryable summary columns.
type ClickHouseHistory struct {
	client *clickhouse.Client
}

func NewClickHouseHistory(ctx context.Context, client *clickhouse.Client) (*ClickHouseHistory, error) {
	if err := client.InitSchema(ctx, []string{historySchema}); err != nil {
		return nil, err
	}
	return &ClickHouseHistory{client: client}, nil
}

func (h *ClickHouseHistory) Save(ctx context.Context, result *models.RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	_, err = h.client.DB().ExecContext(ctx,
		`INSERT INTO run_history (id, trigger, started_at, finished_at, status, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		result.ID, result.Trigger, result.StartedAt, result.FinishedAt, string(result.Status), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (h *ClickHouseHistory) Latest(ctx context.Context) (*models.RunResult, error) {
	results, err := h.Last(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Last returns up to n results, newest first.
func (h *ClickHouseHistory) Last(ctx context.Context, n int) ([]*models.RunResult, error) {
	rows, err := h.client.DB().QueryContext(ctx,
		`SELECT payload FROM run_history ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []*models.RunResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var r models.RunResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
