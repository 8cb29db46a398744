package pricing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// CSVProvider reads daily closes from a file of rows:
//
//	date,symbol,close
//
// A single header row ("date,...") is allowed and blank rows are
// skipped. The whole file is read on every call.
type CSVProvider struct {
	Path string
}

func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{Path: path}
}

func (p *CSVProvider) Historical(ctx context.Context, symbols []market.Symbol, start, end market.Date) (map[market.Symbol][]market.Observation, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()

	all, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, p.Path, err)
	}

	out := make(map[market.Symbol][]market.Observation, len(symbols))
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, o := range all[sym] {
			if o.Date.Between(start, end) {
				out[sym] = append(out[sym], o)
			}
		}
	}
	return out, nil
}

// ReadCSV parses date,symbol,close rows grouped by symbol.
func ReadCSV(r io.Reader) (map[market.Symbol][]market.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	out := make(map[market.Symbol][]market.Observation)
	sawFirst := false
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		if len(row) < 3 {
			return nil, fmt.Errorf("line %d: need date,symbol,close: %v", line, row)
		}
		d, err := market.ParseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sym := strings.TrimSpace(row[1])
		if sym == "" {
			return nil, fmt.Errorf("line %d: empty symbol", line)
		}
		px, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad close %q: %w", line, row[2], err)
		}
		out[sym] = append(out[sym], market.Observation{Date: d, Close: px})
	}
}
