package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoinvoice/internal/config"
	"autoinvoice/internal/ledger"
	"autoinvoice/internal/logger"
	"autoinvoice/internal/mail"
	"autoinvoice/internal/prompt"
	"autoinvoice/internal/toggl"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Select the Toggl workspace and set up the sending address",
	Long: `Pick the Toggl workspace to bill from and record the email address and
name that outgoing invoice mail is sent as. Settings are stored in the
ledger file next to the client records.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("configure")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ld, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}

	timeTracker, err := toggl.New(cfg.TogglAPIToken)
	if err != nil {
		return err
	}

	workspaces, err := timeTracker.ListWorkspaces(cmd.Context())
	if err != nil {
		return err
	}
	if len(workspaces) == 0 {
		return fmt.Errorf("no Toggl workspaces visible to this API token")
	}

	ask := prompt.New()

	names := make([]string, len(workspaces))
	for i, w := range workspaces {
		names[i] = w.Name
	}
	choice, err := ask.Choose("Select a workspace", names)
	if err != nil {
		return err
	}
	ld.SetWorkspaceID(workspaces[choice].ID)
	if err := ld.Save(); err != nil {
		return err
	}

	currentAddr, currentName := ld.Sender()
	sender, err := ask.Input("Your email (for sending invoices)", currentAddr, prompt.Email)
	if err != nil {
		return err
	}
	name, err := ask.Input("Your name (for signing emails)", currentName, nil)
	if err != nil {
		return err
	}
	// Building the sender checks the API key and address before they
	// are persisted as the working configuration.
	if _, err := mail.New(cfg.SendGridAPIKey, sender, name); err != nil {
		return err
	}

	ld.SetSender(sender, name)
	if err := ld.Save(); err != nil {
		return err
	}

	log.Info().
		Int64("workspace_id", workspaces[choice].ID).
		Str("sender", sender).
		Msg("Configuration saved")
	fmt.Printf("Configuration saved to %s\n", ld.Path())
	return nil
}
