package api

import (
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/sim"
)

// runView is the JSON shape of a recorded run.
type runView struct {
	RunID     string          `json:"runId"`
	Created   time.Time       `json:"timestamp"`
	Symbols   []market.Symbol `json:"symbols"`
	Start     market.Date     `json:"startDate"`
	End       market.Date     `json:"endDate"`
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Stats     *risk.Stats     `json:"result,omitempty"`
	Snapshots []sim.Snapshot  `json:"portfolioHistory,omitempty"`
}

func newRunView(r journal.BacktestRun) runView {
	return runView{
		RunID:     r.RunID,
		Created:   r.Created,
		Symbols:   r.Symbols,
		Start:     r.Start,
		End:       r.End,
		Status:    r.Status,
		Message:   r.Message,
		Stats:     r.Stats,
		Snapshots: r.Snapshots,
	}
}
