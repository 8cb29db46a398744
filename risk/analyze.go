package risk

import (
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

// Stats summarizes a backtest.
type Stats struct {
	InitialCapital decimal.Decimal `json:"initialCapital"`
	FinalValue     decimal.Decimal `json:"finalValue"`
	TotalReturn    decimal.Decimal `json:"totalReturn"`
	ReturnRate     decimal.Decimal `json:"returnRate"`
	SharpeRatio    decimal.Decimal `json:"annualizedSharpeRatio"`
	MaxDrawdown    decimal.Decimal `json:"maxDrawdown"`
	TradingDays    int             `json:"tradingDays"`
	FilledTrades   int             `json:"filledTrades"`
	RejectedTrades int             `json:"rejectedTrades"`
}

// Analyze computes every statistic for history. It fails only with
// ErrEmptyHistory.
func Analyze(history []sim.Snapshot, capital decimal.Decimal) (Stats, error) {
	tr, err := TotalReturn(history, capital)
	if err != nil {
		return Stats{}, err
	}
	rate, err := ReturnRate(history, capital)
	if err != nil {
		return Stats{}, err
	}
	filled, rejected := sim.Fills(history)

	return Stats{
		InitialCapital: capital,
		FinalValue:     history[len(history)-1].TotalValue,
		TotalReturn:    tr,
		ReturnRate:     rate,
		SharpeRatio:    SharpeRatio(history),
		MaxDrawdown:    MaxDrawdown(history),
		TradingDays:    len(history),
		FilledTrades:   filled,
		RejectedTrades: rejected,
	}, nil
}
