package journal

import (
	"time"

	"github.com/rustyeddy/backtester/ledger"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleRun(id string, created time.Time) BacktestRun {
	buy := ledger.Action{Date: "2024-01-02", Symbol: "AAPL", Side: ledger.Buy, Shares: 10}
	return BacktestRun{
		RunID:   id,
		Created: created,
		Symbols: []market.Symbol{"AAPL"},
		Start:   "2024-01-02",
		End:     "2024-01-03",
		Status:  "SUCCEEDED",
		Message: "backtest completed successfully",
		Stats: &risk.Stats{
			InitialCapital: d("10000"),
			FinalValue:     d("10100"),
			TotalReturn:    d("100"),
			ReturnRate:     d("1"),
			SharpeRatio:    d("15.8745"),
			MaxDrawdown:    d("0"),
			TradingDays:    2,
			FilledTrades:   1,
		},
		Snapshots: []sim.Snapshot{
			{
				Date:        "2024-01-02",
				Cash:        d("9000"),
				Holdings:    map[market.Symbol]int64{"AAPL": 10},
				Prices:      map[market.Symbol]decimal.Decimal{"AAPL": d("100")},
				TotalValue:  d("10000"),
				DailyReturn: d("0"),
				Executions: []sim.Execution{
					{Action: buy, Filled: true, Price: d("100"), Value: d("1000")},
				},
			},
			{
				Date:        "2024-01-03",
				Cash:        d("9000"),
				Holdings:    map[market.Symbol]int64{"AAPL": 10},
				Prices:      map[market.Symbol]decimal.Decimal{"AAPL": d("110")},
				TotalValue:  d("10100"),
				DailyReturn: d("0.01"),
			},
		},
	}
}
