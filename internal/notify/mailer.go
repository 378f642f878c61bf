package notify

import (
	"context"
	"fmt"

	"jerseylab-api/internal/config"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// SMTPNotifier delivers mail over SMTP.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

// NewSMTPNotifier creates an SMTP-backed Notifier.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send delivers a single plain-text message.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	c, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogNotifier logs instead of sending. Used when SMTP is disabled.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Send records the would-be delivery.
func (n *LogNotifier) Send(_ context.Context, to, subject, _ string) error {
	n.Logger.Info().Str("to", to).Str("subject", subject).Msg("email delivery skipped (SMTP disabled)")
	return nil
}
