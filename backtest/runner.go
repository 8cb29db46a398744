package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/ledger"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/rustyeddy/backtester/pricing"
	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/sim"
)

// Runner wires a price provider, the replay engine and the analyzer.
// A Runner holds no per-run state and is safe for concurrent use as long
// as its Provider and Journal are.
type Runner struct {
	Provider pricing.Provider

	// Journal is optional. Recording failures are logged, never returned.
	Journal journal.Journal

	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

func NewRunner(p pricing.Provider, j journal.Journal, logger *slog.Logger) *Runner {
	return &Runner{Provider: p, Journal: j, Logger: logger}
}

// Run executes req and always returns a Result. Faults from the
// provider, the analyzer, or a panic during replay become a failed
// Result.
func (r *Runner) Run(ctx context.Context, req Request) Result {
	runID := r.newID()
	logger := r.logger().With("run_id", runID)
	logger.Info("backtest started",
		"symbols", req.Symbols,
		"start", req.StartDate,
		"end", req.EndDate,
		"capital", req.InitialCapital.String(),
		"actions", len(req.TradeActions),
	)

	stats, history, err := r.run(ctx, req, logger)

	var res Result
	if err != nil {
		res = failed(runID, r.now(), err)
		logger.Error("backtest failed", "err", err)
	} else {
		res = succeeded(runID, r.now(), stats, history)
		logger.Info("backtest finished",
			"days", stats.TradingDays,
			"final_value", stats.FinalValue.String(),
			"return_rate", stats.ReturnRate.String(),
		)
	}

	r.record(ctx, req, res, logger)
	return res
}

func (r *Runner) run(ctx context.Context, req Request, logger *slog.Logger) (stats risk.Stats, history []sim.Snapshot, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("backtest panicked", "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrInternal, p)
		}
	}()

	if err := req.Validate(); err != nil {
		return risk.Stats{}, nil, err
	}

	symbols := market.NormalizeSymbols(req.Symbols)
	prices, err := pricing.Load(ctx, r.Provider, symbols, req.StartDate, req.EndDate, logger)
	if err != nil {
		return risk.Stats{}, nil, err
	}

	engine := sim.NewEngine(symbols, prices, ledger.NewIndex(req.TradeActions), logger)
	history = engine.Replay(req.InitialCapital, prices.Dates())

	stats, err = risk.Analyze(history, req.InitialCapital)
	if err != nil {
		return risk.Stats{}, nil, err
	}
	return stats, history, nil
}

func (r *Runner) record(ctx context.Context, req Request, res Result, logger *slog.Logger) {
	if r.Journal == nil {
		return
	}
	// the result is already built; a broken journal must not take it down
	defer func() {
		if p := recover(); p != nil {
			logger.Error("journal record panicked", "panic", p, "stack", string(debug.Stack()))
		}
	}()
	run := journal.BacktestRun{
		RunID:     res.RunID,
		Created:   res.Timestamp,
		Symbols:   market.NormalizeSymbols(req.Symbols),
		Start:     req.StartDate,
		End:       req.EndDate,
		Status:    res.Status,
		Message:   res.Message,
		Stats:     res.Summary,
		Snapshots: res.History,
	}
	// a cancelled request still gets its outcome recorded
	if err := r.Journal.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Error("journal record failed", "err", err)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) newID() string {
	if r.NewID == nil {
		return id.New()
	}
	return r.NewID()
}
