package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in currency, using the currency's own minor
// unit and symbol. Unknown codes fall back to two decimal places.
func FormatMoney(amount decimal.Decimal, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, c.Code).Display()
}

// PrintResult writes a human readable report of res to w.
func PrintResult(w io.Writer, res Result, currency string) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", res.RunID)
	fmt.Fprintf(w, "Timestamp:     %s\n", res.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "Status:        %s\n", res.Status)
	fmt.Fprintf(w, "Message:       %s\n", res.Message)

	st := res.Summary
	if st == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Initial:       %s\n", FormatMoney(st.InitialCapital, currency))
	fmt.Fprintf(w, "Final Value:   %s\n", FormatMoney(st.FinalValue, currency))
	fmt.Fprintf(w, "Total Return:  %s\n", FormatMoney(st.TotalReturn, currency))
	fmt.Fprintf(w, "Return:        %s%%\n", st.ReturnRate)
	fmt.Fprintf(w, "Sharpe:        %s\n", st.SharpeRatio)
	fmt.Fprintf(w, "Max Drawdown:  %s%%\n", st.MaxDrawdown)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trading Days:  %d\n", st.TradingDays)
	fmt.Fprintf(w, "Filled:        %d\n", st.FilledTrades)
	fmt.Fprintf(w, "Rejected:      %d\n", st.RejectedTrades)

	if len(res.History) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Portfolio History")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "%-10s  %14s  %14s  %9s\n", "Date", "Cash", "Total", "Return")
	for _, s := range res.History {
		fmt.Fprintf(w, "%-10s  %14s  %14s  %9s\n",
			s.Date,
			FormatMoney(s.Cash, currency),
			FormatMoney(s.TotalValue, currency),
			s.DailyReturn.StringFixed(sim.ReturnScale),
		)
	}
}
