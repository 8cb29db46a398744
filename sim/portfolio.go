package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/backtester/ledger"
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// Rejection reasons. A rejected action changes neither cash nor holdings.
var (
	ErrNoPrice              = errors.New("no price for symbol on trade date")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrInvalidAction        = errors.New("invalid trade action")
)

// Portfolio is the mutable cash and share state of a single replay.
// It is not safe for concurrent use.
type Portfolio struct {
	Cash     decimal.Decimal
	Holdings map[market.Symbol]int64
}

func NewPortfolio(cash decimal.Decimal) *Portfolio {
	return &Portfolio{
		Cash:     cash,
		Holdings: make(map[market.Symbol]int64),
	}
}

// Shares returns the current holding of sym.
func (p *Portfolio) Shares(sym market.Symbol) int64 {
	return p.Holdings[sym]
}

// Apply executes a against the day's prices and returns the fill value
// (price x shares). On rejection the portfolio is left untouched.
func (p *Portfolio) Apply(a ledger.Action, prices map[market.Symbol]decimal.Decimal) (price, value decimal.Decimal, err error) {
	if a.Shares <= 0 || !a.Side.Valid() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAction, a)
	}

	price, ok := prices[a.Symbol]
	if !ok {
		return decimal.Zero, decimal.Zero, ErrNoPrice
	}
	value = price.Mul(decimal.NewFromInt(a.Shares))

	switch a.Side {
	case ledger.Buy:
		if p.Cash.LessThan(value) {
			return price, value, ErrInsufficientFunds
		}
		p.Cash = p.Cash.Sub(value)
		p.Holdings[a.Symbol] += a.Shares

	case ledger.Sell:
		held := p.Holdings[a.Symbol]
		if held < a.Shares {
			return price, value, ErrInsufficientHoldings
		}
		p.Cash = p.Cash.Add(value)
		if held == a.Shares {
			delete(p.Holdings, a.Symbol)
		} else {
			p.Holdings[a.Symbol] = held - a.Shares
		}
	}
	return price, value, nil
}

// Value returns cash plus every held position that has a price in
// prices. Unpriced positions count as zero but keep their shares.
func (p *Portfolio) Value(prices map[market.Symbol]decimal.Decimal) decimal.Decimal {
	total := p.Cash
	for sym, shares := range p.Holdings {
		if shares <= 0 {
			continue
		}
		if px, ok := prices[sym]; ok {
			total = total.Add(px.Mul(decimal.NewFromInt(shares)))
		}
	}
	return total
}

func (p *Portfolio) holdingsCopy() map[market.Symbol]int64 {
	out := make(map[market.Symbol]int64, len(p.Holdings))
	for k, v := range p.Holdings {
		out[k] = v
	}
	return out
}
