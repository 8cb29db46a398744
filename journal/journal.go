// Package journal persists backtest runs and their snapshot history.
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/sim"
)

// BacktestRun is one recorded backtest. Stats is nil for failed runs.
type BacktestRun struct {
	RunID   string
	Created time.Time

	Symbols []market.Symbol
	Start   market.Date
	End     market.Date

	Status  string
	Message string

	Stats     *risk.Stats
	Snapshots []sim.Snapshot
}

// Journal records completed runs.
type Journal interface {
	RecordRun(ctx context.Context, run BacktestRun) error
	Close() error
}

// Reader queries recorded runs.
type Reader interface {
	GetRun(ctx context.Context, runID string) (BacktestRun, error)
	ListRuns(ctx context.Context, limit int) ([]BacktestRun, error)
}
