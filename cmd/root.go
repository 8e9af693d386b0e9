package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autoinvoice/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "autoinvoice",
	Short: "autoinvoice - recurring client invoicing from tracked time",
	Long: `autoinvoice automates recurring client invoicing: it reads billable
time from Toggl, creates invoices in Xero, emails the documents to
clients, and records invoicing history in a local ledger file.

Every side-effecting step is interactive; nothing is billed or sent
without an explicit confirmation.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to autoinvoice!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
