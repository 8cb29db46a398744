// Package sim replays a scripted sequence of trades over historical
// daily closes and records one snapshot per trading date.
package sim

import (
	"log/slog"

	"github.com/rustyeddy/backtester/ledger"
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// ReturnScale is the number of decimal places kept for daily returns.
const ReturnScale int32 = 4

// Engine walks the trading dates of a price table in order, applying
// same-day trades and valuing the portfolio at each close.
//
// An Engine holds no state between calls to Replay; each call starts
// from a fresh Portfolio.
type Engine struct {
	symbols []market.Symbol
	prices  market.PriceTable
	trades  ledger.Index
	logger  *slog.Logger
}

func NewEngine(symbols []market.Symbol, prices market.PriceTable, trades ledger.Index, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if trades == nil {
		trades = ledger.Index{}
	}
	return &Engine{
		symbols: symbols,
		prices:  prices,
		trades:  trades,
		logger:  logger,
	}
}

// Replay produces the snapshot sequence for dates, which must be sorted
// ascending. The first day's return is measured against capital.
func (e *Engine) Replay(capital decimal.Decimal, dates []market.Date) []Snapshot {
	pf := NewPortfolio(capital)
	prev := capital
	history := make([]Snapshot, 0, len(dates))

	for _, d := range dates {
		day := e.prices.PricesOn(d, e.symbols)

		var execs []Execution
		for _, a := range e.trades.On(d) {
			execs = append(execs, e.execute(pf, a, day))
		}

		total := pf.Value(day)

		ret := decimal.Zero
		if prev.IsPositive() {
			ret = total.Sub(prev).DivRound(prev, ReturnScale)
		}

		history = append(history, Snapshot{
			Date:        d,
			Cash:        pf.Cash,
			Holdings:    pf.holdingsCopy(),
			Prices:      day,
			TotalValue:  total,
			DailyReturn: ret,
			Executions:  execs,
		})
		prev = total
	}
	return history
}

func (e *Engine) execute(pf *Portfolio, a ledger.Action, day map[market.Symbol]decimal.Decimal) Execution {
	price, value, err := pf.Apply(a, day)
	if err != nil {
		e.logger.Warn("trade rejected",
			"date", a.Date, "symbol", a.Symbol, "side", a.Side,
			"shares", a.Shares, "reason", err)
		return Execution{Action: a, Price: price, Value: value, Reason: err.Error()}
	}
	e.logger.Debug("trade filled",
		"date", a.Date, "symbol", a.Symbol, "side", a.Side,
		"shares", a.Shares, "price", price, "value", value)
	return Execution{Action: a, Filled: true, Price: price, Value: value}
}
