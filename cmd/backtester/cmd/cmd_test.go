package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/backtester/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Commands share package-level flag state, so these tests run serially.

func execute(t *testing.T, args ...string) error {
	t.Helper()

	cfgPath, logLevel, logFormat = "", "", ""
	runSymbols, runStart, runEnd, runCapital, runTrades = nil, "", "", "", ""
	runJSON, runOrgPath = false, ""
	journalDBPath, journalOutput, journalLimit = "", "", 20

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

const closesCSV = `date,symbol,close
2024-01-02,X,100
2024-01-03,X,110
2024-01-04,X,120
`

func writeTestConfig(t *testing.T) (cfgFile, dbFile string) {
	t.Helper()

	dir := t.TempDir()
	csvFile := filepath.Join(dir, "closes.csv")
	dbFile = filepath.Join(dir, "runs.db")
	cfgFile = filepath.Join(dir, "backtest.yaml")

	require.NoError(t, os.WriteFile(csvFile, []byte(closesCSV), 0644))
	doc := fmt.Sprintf(`
provider: {type: csv, csv_path: %q}
journal: {type: sqlite, db_path: %q}
backtest:
  symbols: [X]
  start: "2024-01-02"
  end: "2024-01-04"
  initial_capital: 1000
  currency: USD
  trades:
    - {date: "2024-01-02", symbol: X, action: BUY, shares: 5}
log: {level: error, format: text}
`, csvFile, dbFile)
	require.NoError(t, os.WriteFile(cfgFile, []byte(doc), 0644))
	return cfgFile, dbFile
}

func TestRunRecordsAndExports(t *testing.T) {
	cfgFile, dbFile := writeTestConfig(t)

	require.NoError(t, execute(t, "run", "-c", cfgFile))

	j, err := journal.NewSQLite(dbFile)
	require.NoError(t, err)
	runs, err := j.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Stats)
	assert.Equal(t, "1100", runs[0].Stats.FinalValue.String())

	require.NoError(t, execute(t, "journal", "list", "-c", cfgFile))
	require.NoError(t, execute(t, "journal", "show", runs[0].RunID, "-c", cfgFile))

	out := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, execute(t, "journal", "export", runs[0].RunID, "-c", cfgFile, "-o", out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, journal.SnapshotsHeader, rows[0])

	assert.Error(t, execute(t, "journal", "show", "missing", "-c", cfgFile))
}

func TestRunFailureReturnsError(t *testing.T) {
	cfgFile, _ := writeTestConfig(t)

	err := execute(t, "run", "-c", cfgFile, "--symbols", "NODATA")
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backtest.yaml")

	require.NoError(t, execute(t, "config", "init", "-o", path))
	require.NoError(t, execute(t, "config", "validate", "-f", path))

	require.NoError(t, os.WriteFile(path, []byte("provider: {type: ftp}"), 0644))
	assert.Error(t, execute(t, "config", "validate", "-f", path))
}
