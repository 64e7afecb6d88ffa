package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/discipline/engine"
	"github.com/rustyeddy/discipline/journal"
	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/settings"
	"github.com/rustyeddy/discipline/status"
)

var checkCmd = &cobra.Command{
	Use:   "check <trades.csv>",
	Short: "Evaluate a CSV trade ledger against the rules",
	Long: `Load a trade ledger from CSV, evaluate every trade against the
configured rules and print the per-trade verdicts plus the resolved status.

The command exits non-zero when the resolved status is blocked, so it can
gate automation.

Example:
  discipline check trades.csv --settings discipline.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := mode()
	if err != nil {
		return err
	}

	s, err := settings.LoadFromFile(settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	all, err := journal.ReadTradesCSV(args[0])
	if err != nil {
		return err
	}
	trades := ledger.FilterMode(all, m)

	report := engine.Evaluate(engine.Snapshot{Trades: trades, Settings: *s}, time.Now())

	for _, t := range report.Trades {
		fmt.Printf("%s %s %s [%s]\n", t.ID, t.Symbol, t.Side, t.Classification)
		for _, v := range t.Violations {
			fmt.Printf("    %s (%s): %s\n", v.Rule, v.Severity, v.Message)
		}
	}

	fmt.Printf("\n%d trades, %d violations, status: %s\n", len(report.Trades), len(report.Violations), report.Level)
	for _, r := range report.Reasons {
		fmt.Printf("  - %s\n", r)
	}

	if report.Level == status.Blocked {
		return fmt.Errorf("trading is blocked")
	}
	return nil
}
