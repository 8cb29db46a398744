package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	out, err := FormatRunOrg(sampleRun("01HRUN", created))
	require.NoError(t, err)

	assert.Contains(t, out, "* BACKTEST: AAPL 2024-01-02..2024-01-03")
	assert.Contains(t, out, ":PROPERTIES:")
	assert.Contains(t, out, ":RUN_ID:      01HRUN")
	assert.Contains(t, out, ":STATUS:      SUCCEEDED")
	assert.Contains(t, out, ":FINAL_VALUE: 10100.00")
	assert.Contains(t, out, ":CREATED:     [2024-03-15 Fri 10:30]")
	assert.Contains(t, out, ":FILLS:       1/0")
	assert.Contains(t, out, "| Filled   | 1 |")
	assert.Contains(t, out, "| 2024-01-03 | 9000.00 | 10100.00 | 0.01 |")
}

func TestFormatRunOrgFailed(t *testing.T) {
	t.Parallel()

	run := BacktestRun{
		RunID:   "F1",
		Symbols: []string{"AAPL", "MSFT"},
		Start:   "2024-01-02",
		End:     "2024-01-05",
		Status:  "FAILED",
		Message: "backtest failed: boom",
	}
	out, err := FormatRunOrg(run)
	require.NoError(t, err)

	assert.Contains(t, out, "* BACKTEST: AAPL MSFT 2024-01-02..2024-01-05")
	assert.Contains(t, out, "backtest failed: boom")
	assert.NotContains(t, out, "Performance Summary")
	assert.NotContains(t, out, "Portfolio History")
	assert.NotContains(t, out, ":FILLS:")
}

func TestWriteRunOrg(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, WriteRunOrg(path, sampleRun("W", time.Now())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":RUN_ID:      W")
}
