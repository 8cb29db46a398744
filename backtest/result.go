package backtest

import (
	"time"

	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/sim"
)

const (
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"

	MessageSucceeded = "backtest completed successfully"
	MessageFailed    = "backtest failed: "
)

// Result is the outcome of a run. On failure Summary and History are
// nil and Message carries the cause.
type Result struct {
	RunID     string         `json:"runId"`
	Status    string         `json:"status"`
	Summary   *risk.Stats    `json:"result,omitempty"`
	History   []sim.Snapshot `json:"portfolioHistory,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message"`

	// Err is the failure cause for callers that want errors.Is.
	Err error `json:"-"`
}

func (r Result) Succeeded() bool { return r.Status == StatusSucceeded }

func succeeded(id string, ts time.Time, stats risk.Stats, history []sim.Snapshot) Result {
	return Result{
		RunID:     id,
		Status:    StatusSucceeded,
		Summary:   &stats,
		History:   history,
		Timestamp: ts,
		Message:   MessageSucceeded,
	}
}

func failed(id string, ts time.Time, err error) Result {
	return Result{
		RunID:     id,
		Status:    StatusFailed,
		Timestamp: ts,
		Message:   MessageFailed + err.Error(),
		Err:       err,
	}
}
