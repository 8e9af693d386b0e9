package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"autoinvoice/internal/config"
	"autoinvoice/internal/date"
	"autoinvoice/internal/ledger"
	"autoinvoice/internal/logger"
	"autoinvoice/internal/prompt"
	"autoinvoice/internal/toggl"
	"autoinvoice/internal/xero"
)

var addClientCmd = &cobra.Command{
	Use:   "add-client",
	Short: "Register or update a billable client",
	Long: `Interactively register a client for recurring invoicing: link a Toggl
client to a Xero contact and account, and record the billing terms
(hourly rate, invoice period, recipient addresses).

Running it again for an existing client updates the record in place.
Run 'autoinvoice configure' first to select a workspace.`,
	Args: cobra.NoArgs,
	RunE: runAddClient,
}

func init() {
	rootCmd.AddCommand(addClientCmd)
}

func runAddClient(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("add-client")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ld, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}
	workspaceID, ok := ld.WorkspaceID()
	if !ok {
		return fmt.Errorf("no workspace selected. Run 'autoinvoice configure' first")
	}

	timeTracker, err := toggl.New(cfg.TogglAPIToken)
	if err != nil {
		return err
	}
	books, err := xero.New(cfg.XeroAccessToken, cfg.XeroTenantID)
	if err != nil {
		return err
	}

	ask := prompt.New()
	ctx := cmd.Context()

	name, err := ask.Input("Name this client", "", prompt.ClientName)
	if err != nil {
		return err
	}

	record := &ledger.Client{Name: name}
	if ld.HasClient(name) {
		fmt.Println("Updating existing client!")
		if existing, err := ld.Client(name); err == nil {
			record = existing
		}
	}

	allClients, err := timeTracker.ListClients(ctx)
	if err != nil {
		return err
	}
	var trackedClients []toggl.TrackedClient
	for _, c := range allClients {
		if c.WorkspaceID == workspaceID {
			trackedClients = append(trackedClients, c)
		}
	}
	if len(trackedClients) == 0 {
		return fmt.Errorf("no clients found in the selected Toggl workspace; create one there first")
	}
	clientNames := make([]string, len(trackedClients))
	for i, c := range trackedClients {
		clientNames[i] = c.Name
	}
	choice, err := ask.Choose("Select a Toggl client", clientNames)
	if err != nil {
		return err
	}
	record.ClientID = trackedClients[choice].ID
	record.WorkspaceID = trackedClients[choice].WorkspaceID

	contacts, err := books.ListContacts(ctx)
	if err != nil {
		return err
	}
	contactNames := make([]string, len(contacts))
	for i, c := range contacts {
		contactNames[i] = c.Name
	}
	choice, err = ask.Choose("Select a Xero contact", contactNames)
	if err != nil {
		return err
	}
	record.ContactID = contacts[choice].ContactID

	accounts, err := books.ListAccounts(ctx)
	if err != nil {
		return err
	}
	accountNames := make([]string, len(accounts))
	for i, a := range accounts {
		accountNames[i] = fmt.Sprintf("%s (%s)", a.Name, a.Code)
	}
	choice, err = ask.Choose("Select a Xero account", accountNames)
	if err != nil {
		return err
	}
	record.AccountCode = accounts[choice].Code

	lastDefault := ""
	if !record.LastInvoice.IsZero() {
		lastDefault = record.LastInvoice.String()
	}
	lastInvoice, err := ask.Input(
		"Last invoice end date (blank if never invoiced)", lastDefault, optionalDate)
	if err != nil {
		return err
	}
	if lastInvoice != "" {
		if record.LastInvoice, err = date.Parse(lastInvoice); err != nil {
			return err
		}
	}

	periodDays, err := askNumber(ask, "Invoice period (days)", int64(record.InvoicePeriodDays))
	if err != nil {
		return err
	}
	record.InvoicePeriodDays = int(periodDays)

	rate, err := askNumber(ask, "Rate (hourly)", record.RateHourly)
	if err != nil {
		return err
	}
	record.RateHourly = rate

	emails, err := ask.Input("Email addresses (comma separated)", record.EmailAddresses, prompt.EmailList)
	if err != nil {
		return err
	}
	record.EmailAddresses = emails

	if err := ld.PutClient(record); err != nil {
		return err
	}
	if err := ld.Save(); err != nil {
		return err
	}

	log.Info().
		Str("client", record.Name).
		Int64("rate_hourly", record.RateHourly).
		Int("invoice_period_days", record.InvoicePeriodDays).
		Msg("Client saved")
	fmt.Printf("Client %s saved to %s\n", record.Name, ld.Path())
	return nil
}

// optionalDate accepts either a valid ledger date or an empty input.
func optionalDate(input string) error {
	if input == "" {
		return nil
	}
	return prompt.Date(input)
}

func askNumber(ask *prompt.Prompter, message string, current int64) (int64, error) {
	defaultValue := ""
	if current > 0 {
		defaultValue = strconv.FormatInt(current, 10)
	}
	answer, err := ask.Input(message, defaultValue, prompt.Number)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(answer, 10, 64)
}
