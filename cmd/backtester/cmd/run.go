package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/journal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one backtest",
	Long: `Run a backtest using the backtest section of the configuration file.
Flags override the configured values.

Examples:
  backtester run -c backtest.yaml
  backtester run -c backtest.yaml --symbols AAPL,MSFT --start 2024-01-02 --end 2024-06-28
  backtester run --capital 25000 --trades trades.yaml --json`,
	RunE: runRun,
}

var (
	runSymbols []string
	runStart   string
	runEnd     string
	runCapital string
	runTrades  string
	runJSON    bool
	runOrgPath string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runSymbols, "symbols", nil, "symbols to load (comma separated)")
	runCmd.Flags().StringVar(&runStart, "start", "", "start date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runEnd, "end", "", "end date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runCapital, "capital", "", "initial capital")
	runCmd.Flags().StringVar(&runTrades, "trades", "", "trade script file (YAML or JSON)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the result as JSON")
	runCmd.Flags().StringVar(&runOrgPath, "org", "", "also write the run as an Org-mode file")
}

func runRun(cmd *cobra.Command, args []string) error {
	if len(runSymbols) > 0 {
		cfg.Backtest.Symbols = runSymbols
	}
	if runStart != "" {
		cfg.Backtest.Start = runStart
	}
	if runEnd != "" {
		cfg.Backtest.End = runEnd
	}
	if runCapital != "" {
		capital, err := decimal.NewFromString(runCapital)
		if err != nil {
			return fmt.Errorf("--capital: %w", err)
		}
		cfg.Backtest.InitialCapital = capital
	}
	if runTrades != "" {
		cfg.Backtest.Trades = nil
		cfg.Backtest.TradesFile = runTrades
	}

	req, err := cfg.Request()
	if err != nil {
		return err
	}

	p, err := newProvider(cfg)
	if err != nil {
		return err
	}
	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res := backtest.NewRunner(p, j, logger).Run(ctx, req)

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		backtest.PrintResult(os.Stdout, res, cfg.CurrencyCode())
	}

	if runOrgPath != "" {
		run := journal.BacktestRun{
			RunID:     res.RunID,
			Created:   res.Timestamp,
			Symbols:   req.Symbols,
			Start:     req.StartDate,
			End:       req.EndDate,
			Status:    res.Status,
			Message:   res.Message,
			Stats:     res.Summary,
			Snapshots: res.History,
		}
		if err := journal.WriteRunOrg(runOrgPath, run); err != nil {
			return fmt.Errorf("write org: %w", err)
		}
		fmt.Printf("✓ Wrote %s\n", runOrgPath)
	}

	if !res.Succeeded() {
		return res.Err
	}
	return nil
}
