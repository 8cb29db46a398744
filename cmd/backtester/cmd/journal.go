package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/backtester/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded backtest runs",
	Long: `Query backtest runs recorded in the SQLite journal.

Subcommands:
  list    - List recent runs
  show    - Print one run as Org-mode
  export  - Export a run's portfolio history as CSV

Examples:
  backtester journal list -n 10
  backtester journal show <run-id>
  backtester journal export <run-id> -o history.csv`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a run as Org-mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run's snapshots as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalExport,
}

var (
	journalDBPath string
	journalLimit  int
	journalOutput string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalExportCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (overrides journal.db_path)")
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum runs to list (0 for all)")
	journalExportCmd.Flags().StringVarP(&journalOutput, "output", "o", "", "output CSV file (stdout when empty)")
}

func openJournalDB() (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal database: set journal.db_path or --db")
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(context.Background(), journalLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-26s  %-20s  %-9s  %-23s  %-12s  %s\n", "RUN ID", "CREATED", "STATUS", "PERIOD", "RETURN %", "SYMBOLS")
	for _, r := range runs {
		ret := "-"
		if r.Stats != nil {
			ret = r.Stats.ReturnRate.String()
		}
		fmt.Printf("%-26s  %-20s  %-9s  %-23s  %-12s  %s\n",
			r.RunID,
			r.Created.Local().Format(time.DateTime),
			r.Status,
			fmt.Sprintf("%s..%s", r.Start, r.End),
			ret,
			strings.Join(r.Symbols, ","),
		)
	}
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	out, err := journal.FormatRunOrg(run)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	snaps, err := j.ListSnapshots(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		if _, err := j.GetRun(context.Background(), args[0]); err != nil {
			return fmt.Errorf("get run: %w", err)
		}
	}

	if journalOutput == "" {
		return journal.WriteSnapshotsCSV(os.Stdout, args[0], snaps)
	}

	f, err := os.Create(journalOutput)
	if err != nil {
		return err
	}
	if err := journal.WriteSnapshotsCSV(f, args[0], snaps); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("✓ Exported %d snapshots to %s\n", len(snaps), journalOutput)
	return nil
}
