package models

import "time"

// RunState is the orchestrator lifecycle state.
type RunState string

const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)

// Run steps, for observability only.
const (
	StepInitialize = 1
	StepEvaluate   = 2
	StepRank       = 3
	StepEnrich     = 4
	StepFinalize   = 5
)

// StepName maps a step number to its display name.
func StepName(step int) string {
	switch step {
	case StepInitialize:
		return "initialize"
	case StepEvaluate:
		return "evaluate assets"
	case StepRank:
		return "rank and truncate"
	case StepEnrich:
		return "price and take-profit"
	case StepFinalize:
		return "finalize and report"
	default:
		return "unknown"
	}
}

// RunResult is the assembled output of one pipeline run.
type RunResult struct {
	ID            string        `json:"id"`
	Trigger       string        `json:"trigger"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	Status        RunState      `json:"status"`
	TopStocks     []AssetRecord `json:"top_stocks"`
	BestStocks    []AssetRecord `json:"best_stocks"`
	TopCryptos    []AssetRecord `json:"top_cryptos"`
	BestCryptos   []AssetRecord `json:"best_cryptos"`
	WalletStocks  []AssetRecord `json:"wallet_stocks"`
	WalletCryptos []AssetRecord `json:"wallet_cryptos"`
	Skipped       []string      `json:"skipped,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// RunStatus is the live view of the orchestrator exposed over HTTP.
type RunStatus struct {
	State      RunState  `json:"state"`
	Step       int       `json:"step"`
	StepName   string    `json:"step_name"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	ElapsedSec float64   `json:"elapsed_seconds"`
	RecentLogs []string  `json:"recent_logs,omitempty"`
}
