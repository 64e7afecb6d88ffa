package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/discipline/risk"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute risk metrics from the ledger",
	Long: `Compute the quantitative risk picture for the active account mode:
drawdown, open exposure, average risk per trade and today's realized loss.

Example:
  discipline metrics --mode live`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	j, trades, s, err := loadState()
	if err != nil {
		return err
	}
	defer j.Close()

	m := risk.ComputeMetrics(trades, *s, time.Now())

	fmt.Printf("Capital:              %.2f %s\n", m.Capital, s.Currency)
	fmt.Printf("Realized PnL:         %.2f %s\n", m.RealizedPnL, s.Currency)
	fmt.Printf("Current drawdown:     %.2f (%.2f%%)\n", m.CurrentDrawdown, m.CurrentDrawdownPct)
	fmt.Printf("Max drawdown:         %.2f%%\n", m.MaxDrawdownPct)
	fmt.Printf("Open exposure:        %.2f (%.2f%% of capital)\n", m.OpenExposure, m.OpenExposurePct)
	fmt.Printf("Avg risk per trade:   %.2f%%", m.AvgRiskPerTradePct)
	if m.MaxAllowedRiskPct > 0 {
		fmt.Printf(" (max allowed %.2f%%)", m.MaxAllowedRiskPct)
	}
	fmt.Println()
	fmt.Printf("Today's loss:         %.2f%%\n", m.DailyLossPct)
	return nil
}
