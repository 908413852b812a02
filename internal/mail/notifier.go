// AngelaMos | 2026
// notifier.go

package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
)

var ErrSendFailed = errors.New("send email failed")

// Notifier delivers a single HTML email.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
	Ping(ctx context.Context) error
}

type dialFunc func() (gomail.SendCloser, error)

type SMTPNotifier struct {
	from     string
	fromName string
	dial     dialFunc
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	return &SMTPNotifier{
		from:     cfg.From,
		fromName: cfg.FromName,
		dial:     dialer.Dial,
	}
}

func (n *SMTPNotifier) Send(
	ctx context.Context,
	to, subject, htmlBody string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)
	msg.SetAddressHeader("From", n.from, n.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	sc, err := n.dial()
	if err != nil {
		return fmt.Errorf("%w: dial smtp: %w", ErrSendFailed, err)
	}
	defer sc.Close() //nolint:errcheck // connection teardown after send

	if err := gomail.Send(sc, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	return nil
}

// Ping opens and closes an SMTP session, including auth.
func (n *SMTPNotifier) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sc, err := n.dial()
	if err != nil {
		return fmt.Errorf("smtp ping failed: %w", err)
	}
	return sc.Close()
}

// LogNotifier writes outgoing mail to the log instead of delivering it.
// Used when mail is disabled, e.g. in local development.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(
	ctx context.Context,
	to, subject, htmlBody string,
) error {
	n.logger.InfoContext(ctx, "mail delivery disabled, message logged",
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}

func (n *LogNotifier) Ping(context.Context) error {
	return nil
}

// New picks the SMTP notifier when mail is enabled.
func New(cfg config.MailConfig, logger *slog.Logger) Notifier {
	if !cfg.Enabled {
		return NewLogNotifier(logger)
	}
	return NewSMTPNotifier(cfg)
}
