// Package mail dispatches invoice email with PDF attachments through
// SendGrid.
//
// Attachments are carried as bytes inside the API payload, so callers
// may hand over either in-memory data or a path to read. Failures are
// split into connection errors (the service was unreachable) and
// rejections (the service refused the message), the latter keeping the
// server's diagnostic text.
package mail

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"autoinvoice/internal/date"
	"autoinvoice/internal/logger"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	sendEndpoint = "/v3/mail/send"
)

// Attachment is one file to attach. Data takes precedence; when nil,
// the content is read from Path.
type Attachment struct {
	Name string
	Path string
	Data []byte
}

func (a *Attachment) content() ([]byte, error) {
	if a.Data != nil {
		return a.Data, nil
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("mail: read attachment %s: %w", a.Path, err)
	}
	return data, nil
}

// Sender sends mail on behalf of a fixed from-address.
type Sender struct {
	apiKey   string
	host     string
	fromAddr string
	fromName string
	log      zerolog.Logger
}

// Option adjusts the sender, primarily for tests.
type Option func(*Sender)

// WithHost overrides the mail API host.
func WithHost(host string) Option {
	return func(s *Sender) { s.host = host }
}

// New builds a Sender for the given API key and from-address.
func New(apiKey, fromAddr, fromName string, opts ...Option) (*Sender, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if fromAddr == "" {
		return nil, ErrMissingSender
	}

	s := &Sender{
		apiKey:   apiKey,
		host:     defaultHost,
		fromAddr: fromAddr,
		fromName: fromName,
		log:      logger.WithComponent("mail"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send dispatches one message to the recipient list with the given
// attachments.
func (s *Sender) Send(recipients []string, subject, body string, attachments []Attachment) error {
	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(s.fromName, s.fromAddr))
	message.Subject = subject
	message.AddContent(sgmail.NewContent("text/html", body))

	personalization := sgmail.NewPersonalization()
	for _, recipient := range recipients {
		personalization.AddTos(sgmail.NewEmail("", recipient))
	}
	message.AddPersonalizations(personalization)

	for i := range attachments {
		data, err := attachments[i].content()
		if err != nil {
			return err
		}
		attachment := sgmail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(data))
		attachment.SetType("application/pdf")
		attachment.SetFilename(attachments[i].Name)
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	request := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(message)

	response, err := sendgrid.API(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if response.StatusCode >= 400 {
		return &RejectedError{Status: response.StatusCode, Diagnostic: response.Body}
	}

	s.log.Info().
		Strs("recipients", recipients).
		Str("subject", subject).
		Int("attachments", len(attachments)).
		Msg("Email sent")

	return nil
}

// InvoiceSubject builds the subject line for an invoice covering the
// given period.
func InvoiceSubject(since, until date.Date) string {
	return fmt.Sprintf("Invoice %s-%s", since.Short(), until.Short())
}

// InvoiceBody builds the message body: the invoice share link and a
// short signature.
func InvoiceBody(shareLink, senderName string) string {
	return fmt.Sprintf("%s<br>Thanks!<br>%s<br>This invoice was generated automatically.", shareLink, senderName)
}

// AttachmentName builds the display name for a period-scoped PDF, e.g.
// "hours_01-02-24_to_01-31-24.pdf".
func AttachmentName(prefix string, since, until date.Date) string {
	format := func(d date.Date) string {
		return d.Time().Format("01-02-06")
	}
	return fmt.Sprintf("%s_%s_to_%s.pdf", prefix, format(since), format(until))
}
