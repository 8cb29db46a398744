package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

const runColumns = `run_id, created, symbols, start_date, end_date, status, message,
	initial_capital, final_value, total_return, return_rate, sharpe_ratio, max_drawdown,
	trading_days, filled_trades, rejected_trades`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (BacktestRun, error) {
	var (
		run                                           BacktestRun
		symbols, start, end                           string
		initial, final, totalRet, rate, sharpe, maxDD decimal.NullDecimal
		days, filled, rejected                        int
	)
	err := row.Scan(
		&run.RunID, &run.Created, &symbols, &start, &end, &run.Status, &run.Message,
		&initial, &final, &totalRet, &rate, &sharpe, &maxDD,
		&days, &filled, &rejected,
	)
	if err != nil {
		return BacktestRun{}, err
	}
	if err := json.Unmarshal([]byte(symbols), &run.Symbols); err != nil {
		return BacktestRun{}, fmt.Errorf("decode symbols: %w", err)
	}
	run.Start, run.End = market.Date(start), market.Date(end)

	if initial.Valid {
		run.Stats = &risk.Stats{
			InitialCapital: initial.Decimal,
			FinalValue:     final.Decimal,
			TotalReturn:    totalRet.Decimal,
			ReturnRate:     rate.Decimal,
			SharpeRatio:    sharpe.Decimal,
			MaxDrawdown:    maxDD.Decimal,
			TradingDays:    days,
			FilledTrades:   filled,
			RejectedTrades: rejected,
		}
	}
	return run, nil
}

// GetRun returns a run with its full snapshot history.
func (j *SQLite) GetRun(ctx context.Context, runID string) (BacktestRun, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM backtest_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BacktestRun{}, fmt.Errorf("%w: %q", ErrNotFound, runID)
		}
		return BacktestRun{}, err
	}

	run.Snapshots, err = j.ListSnapshots(ctx, runID)
	if err != nil {
		return BacktestRun{}, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first, without snapshots. A
// non-positive limit returns every run.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]BacktestRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM backtest_runs
		ORDER BY created DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BacktestRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSnapshots returns the snapshots of a run in replay order.
func (j *SQLite) ListSnapshots(ctx context.Context, runID string) ([]sim.Snapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT date, cash, holdings, prices, total_value, daily_return, executions
		FROM snapshots
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.Snapshot
	for rows.Next() {
		var (
			s                        sim.Snapshot
			date                     string
			holdings, prices, execs  string
		)
		if err := rows.Scan(&date, &s.Cash, &holdings, &prices, &s.TotalValue, &s.DailyReturn, &execs); err != nil {
			return nil, err
		}
		s.Date = market.Date(date)
		if err := json.Unmarshal([]byte(holdings), &s.Holdings); err != nil {
			return nil, fmt.Errorf("decode holdings %s: %w", date, err)
		}
		if err := json.Unmarshal([]byte(prices), &s.Prices); err != nil {
			return nil, fmt.Errorf("decode prices %s: %w", date, err)
		}
		if err := json.Unmarshal([]byte(execs), &s.Executions); err != nil {
			return nil, fmt.Errorf("decode executions %s: %w", date, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
