package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"storerating/internal/config"
	"strings"

	"github.com/sirupsen/logrus"
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

// NewMailer returns an SMTP mailer when SMTP_HOST is set and a logging
// mailer otherwise.
func NewMailer(cfg config.Config) Mailer {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return &LogMailer{}
	}
	from := strings.TrimSpace(cfg.EmailFrom)
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPMailer{
		addr:     net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		host:     cfg.SMTPHost,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		send:     smtp.SendMail,
	}
}

// SMTPMailer sends mail through an SMTP relay using PLAIN auth.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	msg := buildResetMessage(m.from, to, resetLink)
	if err := m.send(m.addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogMailer writes reset links to the log; used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, to, resetLink string) error {
	logrus.WithFields(logrus.Fields{
		"to":   to,
		"link": resetLink,
	}).Info("password reset mail (smtp not configured)")
	return nil
}

func buildResetMessage(from, to, resetLink string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Password Reset Request\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("<p>You requested a password reset. Click the link below to reset your password (expires in 1 hour):</p>")
	b.WriteString(fmt.Sprintf("<p><a href=\"%s\">%s</a></p>\r\n", resetLink, resetLink))
	return []byte(b.String())
}
