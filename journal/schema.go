package journal

const Schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbols TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL,
	initial_capital TEXT,
	final_value TEXT,
	total_return TEXT,
	return_rate TEXT,
	sharpe_ratio TEXT,
	max_drawdown TEXT,
	trading_days INTEGER NOT NULL DEFAULT 0,
	filled_trades INTEGER NOT NULL DEFAULT 0,
	rejected_trades INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL REFERENCES backtest_runs(run_id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	date TEXT NOT NULL,
	cash TEXT NOT NULL,
	holdings TEXT NOT NULL,
	prices TEXT NOT NULL,
	total_value TEXT NOT NULL,
	daily_return TEXT NOT NULL,
	executions TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON backtest_runs(created);
`
