package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the discipline CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("discipline version %s\n", version)
		fmt.Println("A rule-compliance and risk engine for discretionary traders")
		fmt.Println("https://github.com/rustyeddy/discipline")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
