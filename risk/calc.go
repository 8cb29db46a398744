// Package risk derives return and risk statistics from a replayed
// snapshot history.
package risk

import (
	"errors"
	"math"

	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

const (
	// StatScale is the number of decimal places kept for ratios and
	// percentages.
	StatScale int32 = 4

	// TradingDaysPerYear annualizes daily statistics.
	TradingDaysPerYear = 252

	// workScale bounds intermediate divisions.
	workScale int32 = 16
)

// ErrEmptyHistory means there is nothing to summarize.
var ErrEmptyHistory = errors.New("empty portfolio history")

var hundred = decimal.NewFromInt(100)

// TotalReturn is the final value minus initial capital.
func TotalReturn(history []sim.Snapshot, capital decimal.Decimal) (decimal.Decimal, error) {
	if len(history) == 0 {
		return decimal.Zero, ErrEmptyHistory
	}
	return history[len(history)-1].TotalValue.Sub(capital), nil
}

// ReturnRate is the total return as a percentage of capital. The ratio
// is rounded to StatScale places before scaling to percent. Zero
// capital yields a zero rate.
func ReturnRate(history []sim.Snapshot, capital decimal.Decimal) (decimal.Decimal, error) {
	tr, err := TotalReturn(history, capital)
	if err != nil {
		return decimal.Zero, err
	}
	if capital.IsZero() {
		return decimal.Zero, nil
	}
	return tr.DivRound(capital, StatScale).Mul(hundred), nil
}

// SharpeRatio annualizes the mean and population standard deviation of
// daily returns with a zero risk-free rate. A flat return series has a
// ratio of zero.
func SharpeRatio(history []sim.Snapshot) decimal.Decimal {
	returns := make([]decimal.Decimal, 0, len(history))
	for _, s := range history {
		returns = append(returns, s.DailyReturn)
	}
	if len(returns) == 0 {
		return decimal.Zero
	}

	n := decimal.NewFromInt(int64(len(returns)))
	sum := decimal.Zero
	for _, r := range returns {
		sum = sum.Add(r)
	}
	mean := sum.DivRound(n, workScale)

	sq := decimal.Zero
	for _, r := range returns {
		dev := r.Sub(mean)
		sq = sq.Add(dev.Mul(dev))
	}
	variance := sq.DivRound(n, workScale)

	// decimal has no square root.
	std := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64())).Round(workScale)
	if std.IsZero() {
		return decimal.Zero
	}

	annReturn := mean.Mul(decimal.NewFromInt(TradingDaysPerYear))
	annStd := std.Mul(decimal.NewFromFloat(math.Sqrt(TradingDaysPerYear)))
	return annReturn.DivRound(annStd, StatScale)
}

// MaxDrawdown is the largest peak-to-trough fall in total value, as a
// percentage of the running peak. The peak starts at zero and each
// drawdown ratio is rounded to StatScale places before scaling.
func MaxDrawdown(history []sim.Snapshot) decimal.Decimal {
	peak := decimal.Zero
	worst := decimal.Zero
	for _, s := range history {
		v := s.TotalValue
		if v.GreaterThan(peak) {
			peak = v
		}
		if !peak.IsPositive() {
			continue
		}
		dd := peak.Sub(v).DivRound(peak, StatScale).Mul(hundred)
		if dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst
}
