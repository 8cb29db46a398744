package market

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol identifies a tradable instrument.
type Symbol = string

// Observation is a single daily close.
type Observation struct {
	Date  Date            `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Series maps a date to the observation for that day.
type Series map[Date]Observation

// PriceTable holds one series per requested symbol. A symbol may map to
// an empty series when the provider had no data for it.
type PriceTable map[Symbol]Series

// NewPriceTable returns a table with an empty series for every symbol.
func NewPriceTable(symbols []Symbol) PriceTable {
	pt := make(PriceTable, len(symbols))
	for _, s := range symbols {
		pt[s] = make(Series)
	}
	return pt
}

// Add stores an observation for sym, replacing any earlier one on the
// same date.
func (pt PriceTable) Add(sym Symbol, o Observation) {
	s, ok := pt[sym]
	if !ok {
		s = make(Series)
		pt[sym] = s
	}
	s[o.Date] = o
}

// Close returns the close of sym on d.
func (pt PriceTable) Close(sym Symbol, d Date) (decimal.Decimal, bool) {
	o, ok := pt[sym][d]
	if !ok {
		return decimal.Decimal{}, false
	}
	return o.Close, true
}

// Dates returns the sorted union of every date present in the table.
func (pt PriceTable) Dates() []Date {
	seen := make(map[Date]struct{})
	for _, s := range pt {
		for d := range s {
			seen[d] = struct{}{}
		}
	}
	out := make([]Date, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PricesOn collects the closes available on d for the given symbols.
func (pt PriceTable) PricesOn(d Date, symbols []Symbol) map[Symbol]decimal.Decimal {
	out := make(map[Symbol]decimal.Decimal, len(symbols))
	for _, sym := range symbols {
		if p, ok := pt.Close(sym, d); ok {
			out[sym] = p
		}
	}
	return out
}

// Observations returns the number of observations across all series.
func (pt PriceTable) Observations() int {
	n := 0
	for _, s := range pt {
		n += len(s)
	}
	return n
}

// NormalizeSymbols trims symbols and drops blanks and duplicates,
// keeping first-seen order.
func NormalizeSymbols(symbols []string) []Symbol {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]Symbol, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
