package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Invoice verification tooling",
	Long: `invoicectl runs the invoice verification pipeline from the command line.

Configuration is read from INVOICEGATE_* environment variables, the same as the server.

Examples:
  invoicectl verify extracted.json     # Verify an extraction result and print the report
  invoicectl verify --strict out.txt   # Exit non-zero when a critical check fails
  invoicectl sweep                     # Sweep the configured mailbox once`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newSweepCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
