// Package config loads and validates backtester configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/ledger"
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete backtester configuration
type Config struct {
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// ProviderConfig selects where daily closes come from
type ProviderConfig struct {
	Type    string `json:"type" yaml:"type"` // "http" or "csv"
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g., "30s"
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
}

// ParseTimeout converts the timeout string to time.Duration. Empty means
// no explicit timeout.
func (p ProviderConfig) ParseTimeout() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(p.Timeout)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	RunsFile      string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	SnapshotsFile string `json:"snapshots_file,omitempty" yaml:"snapshots_file,omitempty"`
}

// BacktestConfig is the default backtest for the run command
type BacktestConfig struct {
	Symbols        []string        `json:"symbols" yaml:"symbols"`
	Start          string          `json:"start" yaml:"start"`
	End            string          `json:"end" yaml:"end"`
	InitialCapital decimal.Decimal `json:"initial_capital" yaml:"initial_capital"`
	Currency       string          `json:"currency" yaml:"currency"`
	Trades         []ledger.Action `json:"trades,omitempty" yaml:"trades,omitempty"`
	TradesFile     string          `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text or json
}

// SlogLevel maps Level to a slog.Level, defaulting to info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds a logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(l.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log.format must be 'text' or 'json'")
	}
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the provider, journal, server and log sections. The
// backtest section is checked by Request.
func (c *Config) Validate() error {
	switch c.Provider.Type {
	case "http":
		if c.Provider.URL == "" {
			return fmt.Errorf("provider.url required for http type")
		}
	case "csv":
		if c.Provider.CSVPath == "" {
			return fmt.Errorf("provider.csv_path required for csv type")
		}
	default:
		return fmt.Errorf("provider.type must be 'http' or 'csv'")
	}
	if d, err := c.Provider.ParseTimeout(); err != nil || d < 0 {
		return fmt.Errorf("provider.timeout must be a non-negative duration")
	}

	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.SnapshotsFile == "" {
			return fmt.Errorf("journal runs_file and snapshots_file required for CSV type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Backtest.Currency != "" && money.GetCurrency(c.Backtest.Currency) == nil {
		return fmt.Errorf("backtest.currency: unknown currency %q", c.Backtest.Currency)
	}

	if _, err := c.Log.NewLogger(io.Discard); err != nil {
		return err
	}
	return nil
}

// Request converts the backtest section into a validated backtest request.
// Trades from trades_file follow the inline trades.
func (c *Config) Request() (backtest.Request, error) {
	b := c.Backtest
	req := backtest.Request{
		Symbols:        b.Symbols,
		StartDate:      market.Date(b.Start),
		EndDate:        market.Date(b.End),
		InitialCapital: b.InitialCapital,
		TradeActions:   append([]ledger.Action(nil), b.Trades...),
	}
	if b.TradesFile != "" {
		actions, err := ledger.LoadActions(b.TradesFile)
		if err != nil {
			return backtest.Request{}, err
		}
		req.TradeActions = append(req.TradeActions, actions...)
	}
	if err := req.Validate(); err != nil {
		return backtest.Request{}, fmt.Errorf("backtest: %w", err)
	}
	return req, nil
}

// CurrencyCode returns the report currency, USD when unset.
func (c *Config) CurrencyCode() string {
	if c.Backtest.Currency == "" {
		return money.USD
	}
	return c.Backtest.Currency
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type:    "http",
			URL:     "http://localhost:8080",
			Timeout: "30s",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtests.db",
		},
		Backtest: BacktestConfig{
			Symbols:        []string{"AAPL", "MSFT"},
			Start:          "2024-01-02",
			End:            "2024-03-28",
			InitialCapital: decimal.NewFromInt(100000),
			Currency:       money.USD,
			Trades: []ledger.Action{
				{Date: "2024-01-02", Symbol: "AAPL", Side: ledger.Buy, Shares: 100},
				{Date: "2024-01-02", Symbol: "MSFT", Side: ledger.Buy, Shares: 50},
				{Date: "2024-02-15", Symbol: "AAPL", Side: ledger.Sell, Shares: 50},
			},
		},
		Server: ServerConfig{
			Addr: ":8081",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
