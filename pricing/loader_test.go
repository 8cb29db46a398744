package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ob(date, close string) market.Observation {
	return market.Observation{Date: market.Date(date), Close: decimal.RequireFromString(close)}
}

func TestLoadNormalizes(t *testing.T) {
	t.Parallel()

	p := &StaticProvider{Series: map[market.Symbol][]market.Observation{
		"AAPL":  {ob("2025-06-30", "149"), ob("2025-07-01", "150"), ob("2025-07-02", "152")},
		"OTHER": {ob("2025-07-01", "1")},
	}}

	pt, err := Load(context.Background(), p, []market.Symbol{"AAPL", "GOOGL", "AAPL"}, "2025-07-01", "2025-07-31", nil)
	require.NoError(t, err)

	assert.Len(t, pt, 2)
	assert.Len(t, pt["AAPL"], 2)
	assert.Contains(t, pt, "GOOGL")
	assert.Empty(t, pt["GOOGL"])
	assert.NotContains(t, pt, "OTHER")
	assert.Equal(t, []market.Date{"2025-07-01", "2025-07-02"}, pt.Dates())
}

func TestLoadProviderFailure(t *testing.T) {
	t.Parallel()

	p := &StaticProvider{Err: errors.New("Data provider connection failed")}
	_, err := Load(context.Background(), p, []market.Symbol{"AAPL"}, "2025-07-01", "2025-07-31", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "Data provider connection failed")

	_, err = Load(context.Background(), nil, []market.Symbol{"AAPL"}, "2025-07-01", "2025-07-31", nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoadRejectsMalformedObservations(t *testing.T) {
	t.Parallel()

	tests := map[string]market.Observation{
		"bad date":       ob("2025-7-1", "10"),
		"negative close": ob("2025-07-01", "-1"),
	}
	for name, o := range tests {
		t.Run(name, func(t *testing.T) {
			p := &StaticProvider{Series: map[market.Symbol][]market.Observation{"X": {o}}}
			_, err := Load(context.Background(), p, []market.Symbol{"X"}, "2025-07-01", "2025-07-31", nil)
			assert.ErrorIs(t, err, ErrDataUnavailable)
		})
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &StaticProvider{}
	_, err := Load(ctx, p, []market.Symbol{"X"}, "2025-07-01", "2025-07-31", nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestProviderFunc(t *testing.T) {
	t.Parallel()

	var gotStart, gotEnd market.Date
	p := ProviderFunc(func(ctx context.Context, symbols []market.Symbol, start, end market.Date) (map[market.Symbol][]market.Observation, error) {
		gotStart, gotEnd = start, end
		return map[market.Symbol][]market.Observation{"X": {ob("2025-07-01", "1")}}, nil
	})

	pt, err := Load(context.Background(), p, []market.Symbol{"X"}, "2025-07-01", "2025-07-02", nil)
	require.NoError(t, err)
	assert.Equal(t, market.Date("2025-07-01"), gotStart)
	assert.Equal(t, market.Date("2025-07-02"), gotEnd)
	assert.Len(t, pt["X"], 1)
}
