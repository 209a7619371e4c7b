package notifiers

import (
	"context"
	"fmt"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	"github.com/ilindan-dev/webhook-notifier/internal/payload"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// mailDialer is the part of gomail.Dialer the notifier needs.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mirrors notifications to a fixed list of addresses via SMTP.
type EmailNotifier struct {
	dialer mailDialer
	from   string
	to     []string
	logger zerolog.Logger
}

// NewEmailNotifier creates a new instance of EmailNotifier.
func NewEmailNotifier(cfg config.EmailConfig, logger *zerolog.Logger) *EmailNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &EmailNotifier{
		dialer: d,
		from:   cfg.From,
		to:     cfg.To,
		logger: logger.With().Str("component", "email_notifier").Logger(),
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// Send implements the Notifier interface for email. The markdown is sent as plain text.
func (n *EmailNotifier) Send(_ context.Context, notification *model.Notification) error {
	if len(n.to) == 0 {
		return fmt.Errorf("email notifier has no recipients")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", notification.Subject)
	m.SetBody("text/plain", payload.MarkdownText(notification.Subject, notification.Body))

	// DialAndSend opens a connection, sends the email, and closes it.
	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.Error().Err(err).Stringer("notification_id", notification.ID).Msg("failed to send email")
		return err
	}

	n.logger.Info().Stringer("notification_id", notification.ID).Strs("recipients", n.to).Msg("email sent successfully")
	return nil
}
