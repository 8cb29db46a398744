package journal

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runsPath := filepath.Join(dir, "runs.csv")
	snapsPath := filepath.Join(dir, "snapshots.csv")

	j, err := NewCSV(runsPath, snapsPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{RunsHeader}, readCSV(t, runsPath))
	assert.Equal(t, [][]string{SnapshotsHeader}, readCSV(t, snapsPath))
}

func TestCSVJournalRecordRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runsPath := filepath.Join(dir, "runs.csv")
	snapsPath := filepath.Join(dir, "snapshots.csv")

	j, err := NewCSV(runsPath, snapsPath)
	require.NoError(t, err)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordRun(context.Background(), sampleRun("R1", created)))
	require.NoError(t, j.Close())

	runs := readCSV(t, runsPath)
	require.Len(t, runs, 2)
	row := runs[1]
	assert.Equal(t, "R1", row[0])
	assert.Equal(t, "2024-05-01T12:00:00Z", row[1])
	assert.Equal(t, "SUCCEEDED", row[2])
	assert.Equal(t, "AAPL", row[3])
	assert.Equal(t, "10100", row[7])
	assert.Equal(t, "2", row[12])
	assert.Equal(t, "1", row[13])

	snaps := readCSV(t, snapsPath)
	require.Len(t, snaps, 3)
	assert.Equal(t, []string{"R1", "2024-01-02", "9000", "1000", "10000", "0", `{"AAPL":10}`}, snaps[1])
	assert.Equal(t, "0.01", snaps[2][5])
}

func TestCSVJournalAppends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runsPath := filepath.Join(dir, "runs.csv")
	snapsPath := filepath.Join(dir, "snapshots.csv")

	for _, id := range []string{"R1", "R2"} {
		j, err := NewCSV(runsPath, snapsPath)
		require.NoError(t, err)
		require.NoError(t, j.RecordRun(context.Background(), sampleRun(id, time.Now())))
		require.NoError(t, j.Close())
	}

	runs := readCSV(t, runsPath)
	require.Len(t, runs, 3)
	assert.Equal(t, RunsHeader, runs[0])
	assert.Equal(t, "R2", runs[2][0])
}

func TestCSVJournalFailedRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(filepath.Join(dir, "runs.csv"), filepath.Join(dir, "snaps.csv"))
	require.NoError(t, err)

	run := BacktestRun{RunID: "F", Status: "FAILED", Message: "backtest failed: boom"}
	require.NoError(t, j.RecordRun(context.Background(), run))
	require.NoError(t, j.Close())

	runs := readCSV(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, runs, 2)
	assert.Equal(t, "", runs[1][7])
	assert.Equal(t, "backtest failed: boom", runs[1][15])
}

func TestWriteSnapshotsCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	run := sampleRun("X", time.Now())
	require.NoError(t, WriteSnapshotsCSV(&buf, run.RunID, run.Snapshots))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, SnapshotsHeader, rows[0])
	assert.Equal(t, "1100", rows[2][3])
}
