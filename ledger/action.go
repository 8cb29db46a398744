// Package ledger holds the scripted trade actions of a backtest and
// indexes them by execution date.
package ledger

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/backtester/market"
)

// Side is the direction of a trade action.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide accepts BUY or SELL in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown side %q (want BUY or SELL)", s)
	}
}

func (s Side) Valid() bool { return s == Buy || s == Sell }

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Action is one scripted order: trade Shares of Symbol on Date.
type Action struct {
	Date   market.Date   `json:"date" yaml:"date"`
	Symbol market.Symbol `json:"symbol" yaml:"symbol"`
	Side   Side          `json:"action" yaml:"action"`
	Shares int64         `json:"shares" yaml:"shares"`
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s %d %s", a.Date, a.Side, a.Shares, a.Symbol)
}

// Validate checks the action in isolation.
func (a Action) Validate() error {
	if !a.Date.Valid() {
		return fmt.Errorf("bad date %q", a.Date)
	}
	if strings.TrimSpace(a.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if !a.Side.Valid() {
		return fmt.Errorf("unknown side %q", a.Side)
	}
	if a.Shares <= 0 {
		return fmt.Errorf("shares must be positive, got %d", a.Shares)
	}
	return nil
}
