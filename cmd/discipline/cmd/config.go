package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/discipline/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate settings files",
	Long: `Manage settings files for the discipline engine.

Subcommands:
  init     - Generate a default settings file
  validate - Validate an existing settings file

Examples:
  discipline config init -o my-settings.yaml
  discipline config validate -f my-settings.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default settings file",
	Long: `Create a new settings file with documented defaults: a $10,000
account, 1% default risk and no rule limits configured.

Example:
  discipline config init -o discipline.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a settings file",
	Long: `Check if a settings file is valid and can be loaded.

Example:
  discipline config validate -f discipline.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "discipline.yaml", "output settings file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to settings file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	s := settings.Default()
	if err := s.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	fmt.Printf("✓ Created default settings: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and check your ledger with:")
	fmt.Printf("  discipline status --settings %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	s, err := settings.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Settings valid: %s\n", configValidatePath)
	fmt.Printf("  Account: %.2f %s (initial capital %.2f)\n", s.AccountSize, s.Currency, s.InitialCapital)
	fmt.Printf("  Default risk: %.1f%%\n", s.DefaultRiskPct)
	fmt.Printf("  Lockout enabled: %v\n", s.Lockout.Enabled)
	return nil
}
