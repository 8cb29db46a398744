package cmd

import (
	"fmt"

	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/pricing"
)

func newProvider(c *config.Config) (pricing.Provider, error) {
	switch c.Provider.Type {
	case "csv":
		return pricing.NewCSVProvider(c.Provider.CSVPath), nil
	case "http":
		timeout, err := c.Provider.ParseTimeout()
		if err != nil {
			return nil, fmt.Errorf("provider timeout: %w", err)
		}
		return pricing.NewHTTPProvider(c.Provider.URL, timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", c.Provider.Type)
	}
}

// openJournal returns nil when journaling is disabled.
func openJournal(c *config.Config) (journal.Journal, error) {
	switch c.Journal.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(c.Journal.RunsFile, c.Journal.SnapshotsFile)
	case "sqlite":
		return journal.NewSQLite(c.Journal.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", c.Journal.Type)
	}
}
