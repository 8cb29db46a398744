package sim

import (
	"github.com/rustyeddy/backtester/ledger"
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// Execution is the outcome of one scheduled trade action.
type Execution struct {
	Action ledger.Action   `json:"trade"`
	Filled bool            `json:"filled"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
	Reason string          `json:"reason,omitempty"`
}

// Snapshot is the end-of-day state of the portfolio. Holdings and
// Prices are private copies; later replay steps never modify them.
type Snapshot struct {
	Date        market.Date                       `json:"date"`
	Cash        decimal.Decimal                   `json:"cash"`
	Holdings    map[market.Symbol]int64           `json:"holdings"`
	Prices      map[market.Symbol]decimal.Decimal `json:"prices"`
	TotalValue  decimal.Decimal                   `json:"totalValue"`
	DailyReturn decimal.Decimal                   `json:"dailyReturn"`
	Executions  []Execution                       `json:"executions,omitempty"`
}

// PositionsValue is the market value of the priced holdings.
func (s Snapshot) PositionsValue() decimal.Decimal {
	v := decimal.Zero
	for sym, shares := range s.Holdings {
		if px, ok := s.Prices[sym]; ok {
			v = v.Add(px.Mul(decimal.NewFromInt(shares)))
		}
	}
	return v
}

// Fills counts filled and rejected executions across snapshots.
func Fills(history []Snapshot) (filled, rejected int) {
	for _, s := range history {
		for _, ex := range s.Executions {
			if ex.Filled {
				filled++
			} else {
				rejected++
			}
		}
	}
	return filled, rejected
}
