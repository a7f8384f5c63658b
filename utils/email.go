package utils

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/mbriggs/band-management-backend/config"
)

// Mailer sends plain-text mail over SMTP with STARTTLS. When SMTP is not
// configured every send is a logged no-op.
type Mailer struct {
	cfg *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) configured() bool {
	return m.cfg.SMTPHost != "" && m.cfg.SMTPUsername != "" && m.cfg.SMTPPassword != ""
}

// SendEventConfirmed mails every band member when a gig or rehearsal is
// confirmed
func (m *Mailer) SendEventConfirmed(recipients []string, bandName, eventTitle, detail string) error {
	subject := fmt.Sprintf("[%s] %s is confirmed", bandName, eventTitle)
	body := fmt.Sprintf("%s See you there!", detail)
	if detail == "" {
		body = fmt.Sprintf("%s is confirmed. See you there!", eventTitle)
	}

	var firstErr error
	for _, to := range recipients {
		if err := m.send(to, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.configured() {
		log.Printf("⚠️ SMTP not configured. Mail to %s not sent.", to)
		return nil
	}

	from := m.cfg.SMTPFromEmail
	if from == "" {
		from = m.cfg.SMTPUsername
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: m.cfg.SMTPHost,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	fromHeader := from
	if m.cfg.SMTPFromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", m.cfg.SMTPFromName, from)
	}

	msg := strings.Join([]string{
		"From: " + fromHeader,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
