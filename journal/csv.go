package journal

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/backtester/sim"
)

var (
	RunsHeader      = []string{"run_id", "created", "status", "symbols", "start_date", "end_date", "initial_capital", "final_value", "total_return", "return_rate", "sharpe_ratio", "max_drawdown", "trading_days", "filled_trades", "rejected_trades", "message"}
	SnapshotsHeader = []string{"run_id", "date", "cash", "positions_value", "total_value", "daily_return", "holdings"}
)

// CSVJournal appends runs and snapshots to two CSV files.
type CSVJournal struct {
	mu     sync.Mutex
	runs   *csv.Writer
	snaps  *csv.Writer
	rf, sf *os.File
}

func NewCSV(runsPath, snapshotsPath string) (*CSVJournal, error) {
	rf, rw, err := openCSV(runsPath, RunsHeader)
	if err != nil {
		return nil, err
	}
	sf, sw, err := openCSV(snapshotsPath, SnapshotsHeader)
	if err != nil {
		rf.Close()
		return nil, err
	}
	return &CSVJournal{runs: rw, snaps: sw, rf: rf, sf: sf}, nil
}

// openCSV opens path for appending and writes header when the file is new.
func openCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, nil, err
		}
	}
	return f, w, nil
}

func (j *CSVJournal) RecordRun(_ context.Context, run BacktestRun) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.runs.Write(runRow(run)); err != nil {
		return err
	}
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}

	if err := writeSnapshots(j.snaps, run.RunID, run.Snapshots); err != nil {
		return err
	}
	j.snaps.Flush()
	return j.snaps.Error()
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.snaps.Flush()
	if err := j.snaps.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	return j.sf.Close()
}

// WriteSnapshotsCSV writes a header and one row per snapshot to w.
func WriteSnapshotsCSV(w io.Writer, runID string, snaps []sim.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SnapshotsHeader); err != nil {
		return err
	}
	if err := writeSnapshots(cw, runID, snaps); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeSnapshots(w *csv.Writer, runID string, snaps []sim.Snapshot) error {
	for _, s := range snaps {
		holdings, err := json.Marshal(s.Holdings)
		if err != nil {
			return err
		}
		err = w.Write([]string{
			runID,
			string(s.Date),
			s.Cash.String(),
			s.PositionsValue().String(),
			s.TotalValue.String(),
			s.DailyReturn.String(),
			string(holdings),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func runRow(run BacktestRun) []string {
	row := []string{
		run.RunID,
		run.Created.UTC().Format(time.RFC3339),
		run.Status,
		strings.Join(run.Symbols, " "),
		string(run.Start),
		string(run.End),
		"", "", "", "", "", "",
		"0", "0", "0",
		run.Message,
	}
	if st := run.Stats; st != nil {
		row[6] = st.InitialCapital.String()
		row[7] = st.FinalValue.String()
		row[8] = st.TotalReturn.String()
		row[9] = st.ReturnRate.String()
		row[10] = st.SharpeRatio.String()
		row[11] = st.MaxDrawdown.String()
		row[12] = strconv.Itoa(st.TradingDays)
		row[13] = strconv.Itoa(st.FilledTrades)
		row[14] = strconv.Itoa(st.RejectedTrades)
	}
	return row
}
