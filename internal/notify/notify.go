// Package notify wraps the Twilio API to alert the clinic team when a
// patient finalizes a consultation form.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/consultflow/consultflow/internal/models"
)

// MessageSender abstracts the Twilio message call for testing.
type MessageSender interface {
	SendMessage(ctx context.Context, to, body string) error
}

// Opts holds configuration options for the Twilio notifier.
type Opts struct {
	AccountSID string
	AuthToken  string
	From       string
	ClinicTo   string
}

// Option defines a configuration option for the Twilio notifier.
type Option func(*Opts)

// WithAccountSID sets the Twilio account SID.
func WithAccountSID(sid string) Option {
	return func(o *Opts) { o.AccountSID = sid }
}

// WithAuthToken sets the Twilio auth token.
func WithAuthToken(token string) Option {
	return func(o *Opts) { o.AuthToken = token }
}

// WithFrom sets the sending phone number.
func WithFrom(from string) Option {
	return func(o *Opts) { o.From = from }
}

// WithClinicNumber sets the clinic team's recipient number.
func WithClinicNumber(to string) Option {
	return func(o *Opts) { o.ClinicTo = to }
}

// TwilioSender sends SMS via the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender creates a Twilio-backed sender. Credentials fall back to
// the TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER
// environment variables.
func NewTwilioSender(opts ...Option) (*TwilioSender, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.AccountSID == "" {
		cfg.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("TWILIO_FROM_NUMBER")
	}
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("account SID and auth token must be provided")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("from number must be provided")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.From}, nil
}

// SendMessage implements MessageSender.
func (s *TwilioSender) SendMessage(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		slog.Error("TwilioSender.SendMessage failed", "to", to, "error", err)
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}
	slog.Debug("TwilioSender.SendMessage sent", "to", to)
	return nil
}

// ClinicNotifier formats finalized consultations into short alerts for the
// clinic team.
type ClinicNotifier struct {
	sender   MessageSender
	clinicTo string
}

// NewClinicNotifier creates a notifier over a sender. The clinic number
// falls back to the CLINIC_NOTIFY_NUMBER environment variable.
func NewClinicNotifier(sender MessageSender, opts ...Option) (*ClinicNotifier, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ClinicTo == "" {
		cfg.ClinicTo = os.Getenv("CLINIC_NOTIFY_NUMBER")
	}
	if cfg.ClinicTo == "" {
		return nil, fmt.Errorf("clinic notification number must be provided")
	}
	return &ClinicNotifier{sender: sender, clinicTo: cfg.ClinicTo}, nil
}

// NotifyConsultation sends a short alert naming the patient and record ID.
// The full record stays in the archive; the message carries just enough to
// act on.
func (n *ClinicNotifier) NotifyConsultation(ctx context.Context, rec models.ConsultationRecord) error {
	body := fmt.Sprintf("New consultation %s (%s)", rec.ID, rec.Language)
	if name, phone := extractPatientContact(rec.FormJSON); name != "" {
		body = fmt.Sprintf("New consultation %s (%s): %s %s", rec.ID, rec.Language, name, phone)
	}
	if err := n.sender.SendMessage(ctx, n.clinicTo, body); err != nil {
		return fmt.Errorf("failed to notify clinic about %s: %w", rec.ID, err)
	}
	slog.Info("ClinicNotifier.NotifyConsultation: clinic notified", "recordID", rec.ID)
	return nil
}

// extractPatientContact pulls the patient name and phone out of the archived
// form JSON. Parse failures just degrade the message body.
func extractPatientContact(formJSON string) (name, phone string) {
	var form models.ConsultationFormData
	if err := json.Unmarshal([]byte(formJSON), &form); err != nil || form.Personal == nil {
		return "", ""
	}
	return form.Personal.Name, form.Personal.Phone
}
