package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rustyeddy/backtester/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "Replay scripted equity trades over historical daily closes",
	Long: `Backtester replays a scripted list of BUY/SELL actions against historical
daily closing prices and reports how the portfolio would have performed.

It provides tools for:
  - Running a backtest from a configuration file or flags
  - Serving backtests over an HTTP API
  - Keeping a journal of past runs in SQLite or CSV
  - Exporting run history as CSV or Org-mode

Complete documentation is available at https://github.com/rustyeddy/backtester`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgPath   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// setup loads the config and installs the default logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgPath == "" {
		cfg = config.Default()
	} else if cfg, err = config.LoadFromFile(cfgPath); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err = cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
