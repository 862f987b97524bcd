// Package notify contains Notifier transport adapters. The service core only
// sees the ports.Notifier interface; which adapter runs is a wiring decision
// made in main from configuration.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shopstack/accounts-api/internal/core/ports"
)

// SMTPConfig carries the outbound-mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers notifications over plain SMTP.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send delivers a single message. PLAIN auth is used only when a username is
// configured; unauthenticated relays (e.g. a local postfix) work without it.
func (n *SMTPNotifier) Send(ctx context.Context, msg ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{msg.To}, buildMessage(n.cfg.From, msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg ports.Notification) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
