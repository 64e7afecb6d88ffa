package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/discipline/journal"
	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/settings"
)

var rootCmd = &cobra.Command{
	Use:   "discipline",
	Short: "A rule-compliance and risk engine for discretionary traders",
	Long: `Discipline evaluates a trade journal against your configured trading
rules and risk limits.

It provides tools for:
  - Computing drawdown, exposure and risk metrics from the ledger
  - Checking every trade against daily/weekly caps, size and loss limits
  - Resolving a single ok/warning/blocked trading status
  - Enforcing a timed ultra-disciplined lockout after critical violations
  - Tracking goal constraints (sessions, trade caps, loss caps)

Complete documentation is available at https://github.com/rustyeddy/discipline`,
}

var (
	settingsPath string
	dbPath       string
	accountMode  string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	env, err := settings.LoadEnv()
	if err != nil {
		env = &settings.Env{
			SettingsFile: "discipline.yaml",
			JournalDB:    "discipline.db",
			AccountMode:  "live",
		}
	}

	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", env.SettingsFile, "path to settings file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", env.JournalDB, "path to SQLite journal DB")
	rootCmd.PersistentFlags().StringVarP(&accountMode, "mode", "m", env.AccountMode, "account mode: simulation, demo or live")
}

func mode() (ledger.AccountMode, error) {
	switch accountMode {
	case "simulation", "demo", "live":
		return ledger.AccountMode(accountMode), nil
	}
	return "", fmt.Errorf("unknown account mode %q", accountMode)
}

// loadState opens the journal, loads the ledger for the active mode and the
// settings file, and overlays the persisted lockout state. The journal is
// the system of record for blocked-until; the settings file only carries the
// policy flags.
func loadState() (*journal.SQLite, []ledger.Trade, *settings.Settings, error) {
	m, err := mode()
	if err != nil {
		return nil, nil, nil, err
	}

	s, err := settings.LoadFromFile(settingsPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load settings: %w", err)
	}

	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open db: %w", err)
	}

	trades, err := j.ListTrades(m)
	if err != nil {
		j.Close()
		return nil, nil, nil, fmt.Errorf("list trades: %w", err)
	}

	stored, updatedAt, err := j.LoadLockout()
	if err != nil {
		j.Close()
		return nil, nil, nil, fmt.Errorf("load lockout: %w", err)
	}
	if !updatedAt.IsZero() {
		s.Lockout.BlockedUntil = stored.BlockedUntil
	}

	return j, trades, s, nil
}

func fmtDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
