package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/discipline/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Resolve the current trading status",
	Long: `Evaluate the full ledger against the configured rules and print the
resolved trading status with every contributing reason.

Example:
  discipline status --settings discipline.yaml --db discipline.db`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	j, trades, s, err := loadState()
	if err != nil {
		return err
	}
	defer j.Close()

	report := engine.Evaluate(engine.Snapshot{Trades: trades, Settings: *s}, time.Now())

	fmt.Printf("Status: %s\n", report.Level)
	if report.LockoutActive {
		fmt.Printf("Lockout: active, %s remaining\n", fmtDuration(report.LockoutRemains))
	}
	if len(report.Reasons) == 0 {
		fmt.Println("No restrictions in effect.")
		return nil
	}

	fmt.Println("Reasons:")
	for _, r := range report.Reasons {
		fmt.Printf("  - %s\n", r)
	}
	return nil
}
