package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	req, err := cfg.Request()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, req.Symbols)
	assert.Len(t, req.TradeActions, 3)
	assert.Equal(t, "100000", req.InitialCapital.String())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"cfg.yaml", "cfg.yml", "cfg.json"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)
			want := Default()
			require.NoError(t, want.SaveToFile(path))

			got, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, want.Provider, got.Provider)
			assert.Equal(t, want.Journal, got.Journal)
			assert.Equal(t, want.Server, got.Server)
			assert.Equal(t, want.Log, got.Log)
			assert.Equal(t, want.Backtest.Symbols, got.Backtest.Symbols)
			assert.Equal(t, want.Backtest.Trades, got.Backtest.Trades)
			assert.True(t, want.Backtest.InitialCapital.Equal(got.Backtest.InitialCapital))
		})
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	doc := `
provider:
  type: csv
  csv_path: ./closes.csv
journal:
  type: none
backtest:
  symbols: [X]
  start: "2024-01-02"
  end: "2024-01-04"
  initial_capital: 1000.25
  currency: EUR
  trades:
    - {date: "2024-01-02", symbol: X, action: buy, shares: 5}
log:
  level: debug
  format: json
`
	path := filepath.Join(t.TempDir(), "backtest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Provider.Type)
	assert.Equal(t, "EUR", cfg.CurrencyCode())

	req, err := cfg.Request()
	require.NoError(t, err)
	assert.Equal(t, "1000.25", req.InitialCapital.String())
	assert.Equal(t, ledger.Buy, req.TradeActions[0].Side)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "parse config")

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: {type: ftp}"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"default", func(*Config) {}, ""},
		{"bad provider type", func(c *Config) { c.Provider.Type = "ftp" }, "provider.type"},
		{"http without url", func(c *Config) { c.Provider.URL = "" }, "provider.url"},
		{"csv without path", func(c *Config) { c.Provider = ProviderConfig{Type: "csv"} }, "provider.csv_path"},
		{"bad timeout", func(c *Config) { c.Provider.Timeout = "soon" }, "provider.timeout"},
		{"negative timeout", func(c *Config) { c.Provider.Timeout = "-1s" }, "provider.timeout"},
		{"no journal", func(c *Config) { c.Journal = JournalConfig{} }, ""},
		{"sqlite without path", func(c *Config) { c.Journal.DBPath = "" }, "db_path"},
		{"csv journal without files", func(c *Config) { c.Journal = JournalConfig{Type: "csv", RunsFile: "r.csv"} }, "snapshots_file"},
		{"bad journal type", func(c *Config) { c.Journal.Type = "mongo" }, "journal.type"},
		{"unknown currency", func(c *Config) { c.Backtest.Currency = "XYZ1" }, "unknown currency"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Backtest.Symbols = nil
	_, err := cfg.Request()
	assert.ErrorIs(t, err, backtest.ErrInvalidRequest)

	cfg = Default()
	cfg.Backtest.TradesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Request()
	assert.ErrorContains(t, err, "open trades file")
}

func TestRequestAppendsTradesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`[{date: "2024-03-01", symbol: MSFT, action: SELL, shares: 10}]`), 0644))

	cfg := Default()
	cfg.Backtest.TradesFile = path
	req, err := cfg.Request()
	require.NoError(t, err)
	require.Len(t, req.TradeActions, 4)
	assert.Equal(t, ledger.Sell, req.TradeActions[3].Side)
	assert.Len(t, cfg.Backtest.Trades, 3)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
