package ledger

import (
	"strings"

	"github.com/rustyeddy/backtester/market"
)

// Index maps an execution date to the actions scheduled that day, in
// the order they were supplied. The first listed action executes first.
type Index map[market.Date][]Action

// NewIndex groups actions by date, preserving input order within a date.
// Symbols are trimmed to match market.NormalizeSymbols. A nil or empty
// slice yields an empty index.
func NewIndex(actions []Action) Index {
	idx := make(Index)
	for _, a := range actions {
		a.Symbol = strings.TrimSpace(a.Symbol)
		idx[a.Date] = append(idx[a.Date], a)
	}
	return idx
}

// On returns the actions scheduled for d.
func (idx Index) On(d market.Date) []Action {
	return idx[d]
}

// Len returns the total number of indexed actions.
func (idx Index) Len() int {
	n := 0
	for _, as := range idx {
		n += len(as)
	}
	return n
}
