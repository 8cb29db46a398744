package pricing

import (
	"context"

	"github.com/rustyeddy/backtester/market"
)

// StaticProvider serves closes from memory.
type StaticProvider struct {
	Series map[market.Symbol][]market.Observation
	Err    error
}

func (s *StaticProvider) Historical(ctx context.Context, symbols []market.Symbol, start, end market.Date) (map[market.Symbol][]market.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[market.Symbol][]market.Observation, len(symbols))
	for _, sym := range symbols {
		if obs, ok := s.Series[sym]; ok {
			out[sym] = append([]market.Observation(nil), obs...)
		}
	}
	return out, nil
}
