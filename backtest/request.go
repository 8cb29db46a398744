// Package backtest runs one scripted-trade backtest end to end: load
// closes, replay the trades, and summarize the resulting history.
package backtest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/backtester/ledger"
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRequest marks a request rejected before any data is loaded.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternal marks an unexpected fault recovered inside a run.
	ErrInternal = errors.New("internal error")
)

// Request describes one backtest.
type Request struct {
	Symbols        []string        `json:"symbols" yaml:"symbols"`
	StartDate      market.Date     `json:"startDate" yaml:"start"`
	EndDate        market.Date     `json:"endDate" yaml:"end"`
	InitialCapital decimal.Decimal `json:"initialCapital" yaml:"initial_capital"`
	TradeActions   []ledger.Action `json:"tradeActions" yaml:"trades"`
}

// Validate checks the request shape. Trade dates outside the range are
// allowed; replay never reaches them.
func (r Request) Validate() error {
	if len(r.Symbols) == 0 {
		return fmt.Errorf("%w: symbols are required", ErrInvalidRequest)
	}
	for i, s := range r.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: symbols[%d] is blank", ErrInvalidRequest, i)
		}
	}
	if !r.StartDate.Valid() {
		return fmt.Errorf("%w: bad start date %q", ErrInvalidRequest, r.StartDate)
	}
	if !r.EndDate.Valid() {
		return fmt.Errorf("%w: bad end date %q", ErrInvalidRequest, r.EndDate)
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidRequest, r.EndDate, r.StartDate)
	}
	if !r.InitialCapital.IsPositive() {
		return fmt.Errorf("%w: initial capital must be positive, got %s", ErrInvalidRequest, r.InitialCapital)
	}
	for i, a := range r.TradeActions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: tradeActions[%d]: %v", ErrInvalidRequest, i, err)
		}
	}
	return nil
}
