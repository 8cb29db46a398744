package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rustyeddy/backtester/market"
)

// Load fetches closes for symbols over [start, end] and returns a table
// keyed by exactly the requested symbols. Observations outside the range
// and series for symbols that were not requested are dropped. Any
// provider failure is reported as ErrDataUnavailable.
func Load(ctx context.Context, p Provider, symbols []market.Symbol, start, end market.Date, logger *slog.Logger) (market.PriceTable, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		return nil, fmt.Errorf("%w: no provider configured", ErrDataUnavailable)
	}

	symbols = market.NormalizeSymbols(symbols)
	raw, err := p.Historical(ctx, symbols, start, end)
	if err != nil {
		if errors.Is(err, ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	pt := market.NewPriceTable(symbols)
	for _, sym := range symbols {
		for _, o := range raw[sym] {
			if err := validate(o); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, sym, err)
			}
			if !o.Date.Between(start, end) {
				continue
			}
			pt.Add(sym, o)
		}
		if len(pt[sym]) == 0 {
			logger.Warn("no price data for symbol", "symbol", sym, "start", start, "end", end)
		}
	}

	logger.Info("loaded price table",
		"symbols", len(symbols), "observations", pt.Observations(), "dates", len(pt.Dates()))
	return pt, nil
}

func validate(o market.Observation) error {
	if !o.Date.Valid() {
		return fmt.Errorf("bad date %q", o.Date)
	}
	if o.Close.IsNegative() {
		return fmt.Errorf("negative close %s on %s", o.Close, o.Date)
	}
	return nil
}
