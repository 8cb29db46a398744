// Package pricing fetches historical daily closes from a market data
// provider and normalizes them into a market.PriceTable.
package pricing

import (
	"context"
	"errors"

	"github.com/rustyeddy/backtester/market"
)

// ErrDataUnavailable means the provider could not be reached or
// returned a payload that could not be parsed. It is fatal to a run.
var ErrDataUnavailable = errors.New("market data unavailable")

// Provider returns, per symbol, the closes observed in [start, end].
// Symbols without data may be missing from the result or map to an
// empty slice. Implementations wrap failures with ErrDataUnavailable.
type Provider interface {
	Historical(ctx context.Context, symbols []market.Symbol, start, end market.Date) (map[market.Symbol][]market.Observation, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, symbols []market.Symbol, start, end market.Date) (map[market.Symbol][]market.Observation, error)

func (f ProviderFunc) Historical(ctx context.Context, symbols []market.Symbol, start, end market.Date) (map[market.Symbol][]market.Observation, error) {
	return f(ctx, symbols, start, end)
}
