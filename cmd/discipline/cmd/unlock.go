package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/discipline/journal"
	"github.com/rustyeddy/discipline/lockout"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Manually clear an active lockout",
	Long: `Clear the ultra-disciplined lockout regardless of its deadline.

This is the explicit override the engine never performs on its own. Use it
deliberately; the lockout exists to protect you from yourself.

Example:
  discipline unlock --db discipline.db`,
	Args: cobra.NoArgs,
	RunE: runUnlock,
}

func init() {
	rootCmd.AddCommand(unlockCmd)
}

func runUnlock(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	ls, _, err := j.LoadLockout()
	if err != nil {
		return fmt.Errorf("load lockout: %w", err)
	}

	now := time.Now()
	if !lockout.IsLocked(ls, now) {
		fmt.Println("No active lockout.")
		return nil
	}

	remaining := lockout.Remaining(ls, now)
	if err := j.SaveLockout(lockout.Clear(ls), now); err != nil {
		return err
	}

	fmt.Printf("✓ Lockout cleared (%s early)\n", fmtDuration(remaining))
	return nil
}
