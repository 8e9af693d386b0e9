package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"autoinvoice/internal/config"
	"autoinvoice/internal/ledger"
	"autoinvoice/internal/logger"
	"autoinvoice/internal/mail"
	"autoinvoice/internal/prompt"
	"autoinvoice/internal/toggl"
	"autoinvoice/internal/workflow"
	"autoinvoice/internal/xero"
)

var sendInvoicesCmd = &cobra.Command{
	Use:   "send-invoices",
	Short: "Invoice every client whose billing period has ended",
	Long: `Walk every registered client, determine who is due for invoicing, and
for each due client: fetch billable hours from Toggl, reconcile against
open invoices in Xero, create or reuse an invoice, and email the
documents to the client's recipients.

Each side-effecting step waits for an explicit confirmation. If any
tracked time in a billed period is not assigned to a project, the whole
run stops before any invoice is created; assign or delete that time
first.

If no client is due, a report of upcoming invoice dates is printed
instead.

Required environment variables:
  TOGGL_API_TOKEN   - Toggl API token
  XERO_ACCESS_TOKEN - Xero OAuth2 access token
  XERO_TENANT_ID    - Xero tenant id
  SENDGRID_API_KEY  - SendGrid API key`,
	Example: `  # Invoice everyone who is due
  autoinvoice send-invoices`,
	Args: cobra.NoArgs,
	RunE: runSendInvoices,
}

func init() {
	rootCmd.AddCommand(sendInvoicesCmd)
}

func runSendInvoices(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("send-invoices")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ld, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}
	clients, err := ld.Clients()
	if err != nil {
		return fmt.Errorf("ledger is invalid, fix %s: %w", ld.Path(), err)
	}
	if len(clients) == 0 {
		fmt.Println("No clients registered. Run 'autoinvoice add-client' first.")
		return nil
	}

	senderAddr, senderName := ld.Sender()
	if senderAddr == "" {
		return fmt.Errorf("no sender configured. Run 'autoinvoice configure' first")
	}

	timeTracker, err := toggl.New(cfg.TogglAPIToken)
	if err != nil {
		return err
	}
	books, err := xero.New(cfg.XeroAccessToken, cfg.XeroTenantID)
	if err != nil {
		return err
	}
	mailer, err := mail.New(cfg.SendGridAPIKey, senderAddr, senderName)
	if err != nil {
		return err
	}

	ctx, cancel := interruptibleContext(log)
	defer cancel()

	runner := &workflow.Runner{
		Time:       timeTracker,
		Books:      books,
		Mail:       mailer,
		Ask:        prompt.New(),
		Store:      ld,
		SenderName: senderName,
		Out:        os.Stdout,
	}

	log.Info().
		Int("clients", len(clients)).
		Str("ledger", ld.Path()).
		Msg("Starting invoicing run")

	if err := runner.Run(ctx, clients); err != nil {
		if errors.Is(err, workflow.ErrUnaccountedTime) {
			// The one hard stop with a non-zero exit: the operator
			// must clean up tracked time before anyone is billed.
			return err
		}
		log.Error().Err(err).Msg("Invoicing run stopped")
		fmt.Fprintf(os.Stderr, "Run stopped: %v\n", err)
	}
	return nil
}

// interruptibleContext returns a context canceled on SIGINT/SIGTERM so
// an operator can bail out of a run between prompts.
func interruptibleContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling run")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
