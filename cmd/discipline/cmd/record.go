package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/discipline/engine"
	"github.com/rustyeddy/discipline/ledger"
	"github.com/rustyeddy/discipline/notify"
)

var recordCmd = &cobra.Command{
	Use:   "record <symbol>",
	Short: "Record a new trade and re-evaluate the rules",
	Long: `Append a new open trade to the journal, evaluate it against the
configured rules and apply the ultra-disciplined lockout transition when it
carries a critical violation.

Example:
  discipline record EURUSD --side long --entry 1.0850 --size 10000 --stop 1.0800`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

var (
	recordSide     string
	recordEntry    float64
	recordSize     float64
	recordLeverage float64
	recordStop     float64
	recordTarget   float64
)

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordSide, "side", "long", "position side: long or short")
	recordCmd.Flags().Float64Var(&recordEntry, "entry", 0, "entry price (required)")
	recordCmd.Flags().Float64Var(&recordSize, "size", 0, "position size (required)")
	recordCmd.Flags().Float64Var(&recordLeverage, "leverage", 0, "leverage, omit for 1x")
	recordCmd.Flags().Float64Var(&recordStop, "stop", 0, "stop-loss price")
	recordCmd.Flags().Float64Var(&recordTarget, "target", 0, "take-profit price")
	recordCmd.MarkFlagRequired("entry")
	recordCmd.MarkFlagRequired("size")
}

func runRecord(cmd *cobra.Command, args []string) error {
	if recordSide != "long" && recordSide != "short" {
		return fmt.Errorf("side must be 'long' or 'short'")
	}

	j, trades, s, err := loadState()
	if err != nil {
		return err
	}
	defer j.Close()

	m, _ := mode()
	now := time.Now()

	t := ledger.Trade{
		Symbol:     args[0],
		Side:       ledger.Side(recordSide),
		EntryPrice: recordEntry,
		Size:       recordSize,
		EntryTime:  now,
		Status:     ledger.StatusOpen,
		Mode:       m,
	}
	if recordLeverage > 0 {
		t.Leverage = &recordLeverage
	}
	if recordStop > 0 {
		t.StopLoss = &recordStop
	}
	if recordTarget > 0 {
		t.TakeProfit = &recordTarget
	}

	t, err = j.RecordTrade(t)
	if err != nil {
		return err
	}

	prev := engine.Evaluate(engine.Snapshot{Trades: trades, Settings: *s}, now)
	report, nextLockout := engine.Record(engine.Snapshot{Trades: trades, Settings: *s}, t, now)

	if err := j.SaveLockout(nextLockout, now); err != nil {
		return err
	}

	dispatcher := notify.NewWriter(os.Stdout)
	for _, e := range engine.Diff(prev, report, now) {
		if err := dispatcher.Dispatch(e); err != nil {
			return err
		}
	}

	fmt.Printf("Recorded trade %s\n", t.ID)
	fmt.Printf("Status: %s\n", report.Level)
	for _, r := range report.Reasons {
		fmt.Printf("  - %s\n", r)
	}
	return nil
}
