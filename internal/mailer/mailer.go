package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"trailbook/internal/config"

	"github.com/wneessen/go-mail"
)

// SMTP dispatches transactional mail over SMTP. It satisfies the auth
// service's Mailer interface.
type SMTP struct {
	client *mail.Client
	from   string
	log    *slog.Logger
}

// NewSMTP builds an SMTP mailer from configuration. Auth is only enabled
// when a username is configured, so local dev against a capture server
// (mailpit and friends) works without credentials.
func NewSMTP(cfg config.Config, log *slog.Logger) (*SMTP, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPass),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTP{
		client: client,
		from:   cfg.EmailFrom,
		log:    log,
	}, nil
}

// Send delivers a plain-text message. Any failure means delivery could not
// even be attempted and the caller must treat the message as never sent.
func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Debug("email dispatched", "to", to, "subject", subject)
	return nil
}
