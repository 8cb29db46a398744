package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLite stores runs in a SQLite database. Decimals are stored as TEXT
// so they round-trip exactly.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// one writer at a time; concurrent runs share the handle
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(ctx context.Context, run BacktestRun) error {
	symbols, err := json.Marshal(run.Symbols)
	if err != nil {
		return fmt.Errorf("encode symbols: %w", err)
	}

	var (
		initial, final, totalRet, rate, sharpe, maxDD decimal.NullDecimal
		days, filled, rejected                        int
	)
	if st := run.Stats; st != nil {
		initial = decimal.NewNullDecimal(st.InitialCapital)
		final = decimal.NewNullDecimal(st.FinalValue)
		totalRet = decimal.NewNullDecimal(st.TotalReturn)
		rate = decimal.NewNullDecimal(st.ReturnRate)
		sharpe = decimal.NewNullDecimal(st.SharpeRatio)
		maxDD = decimal.NewNullDecimal(st.MaxDrawdown)
		days, filled, rejected = st.TradingDays, st.FilledTrades, st.RejectedTrades
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO backtest_runs
		(run_id, created, symbols, start_date, end_date, status, message,
		 initial_capital, final_value, total_return, return_rate, sharpe_ratio, max_drawdown,
		 trading_days, filled_trades, rejected_trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created.UTC(), string(symbols), string(run.Start), string(run.End),
		run.Status, run.Message,
		initial, final, totalRet, rate, sharpe, maxDD,
		days, filled, rejected,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshots
		(run_id, seq, date, cash, holdings, prices, total_value, daily_return, executions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range run.Snapshots {
		holdings, err := json.Marshal(s.Holdings)
		if err != nil {
			return err
		}
		prices, err := json.Marshal(s.Prices)
		if err != nil {
			return err
		}
		execs, err := json.Marshal(s.Executions)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			run.RunID, i, string(s.Date), s.Cash,
			string(holdings), string(prices),
			s.TotalValue, s.DailyReturn, string(execs),
		); err != nil {
			return fmt.Errorf("insert snapshot %s/%s: %w", run.RunID, s.Date, err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
