package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"storerating/internal/config"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailerSelectsImplementation(t *testing.T) {
	_, isLog := NewMailer(config.Config{}).(*LogMailer)
	assert.True(t, isLog, "expected log mailer without smtp host")

	m, isSMTP := NewMailer(config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587", SMTPUser: "bot@example.com"}).(*SMTPMailer)
	require.True(t, isSMTP)
	assert.Equal(t, "smtp.example.com:587", m.addr)
	assert.Equal(t, "bot@example.com", m.from)
}

func TestSMTPMailerSendsResetLink(t *testing.T) {
	m := NewMailer(config.Config{SMTPHost: "smtp.example.com", SMTPPort: "25", EmailFrom: "noreply@example.com"}).(*SMTPMailer)

	var gotTo []string
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:25", addr)
		assert.Nil(t, a)
		assert.Equal(t, "noreply@example.com", from)
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	link := "http://localhost:3000/reset-password?token=abc"
	require.NoError(t, m.SendPasswordReset(context.Background(), "user@example.com", link))
	assert.Equal(t, []string{"user@example.com"}, gotTo)
	assert.True(t, strings.Contains(gotMsg, link))
	assert.True(t, strings.Contains(gotMsg, "Subject: Password Reset Request"))
}

func TestSMTPMailerWrapsErrors(t *testing.T) {
	m := NewMailer(config.Config{SMTPHost: "smtp.example.com", SMTPPort: "25"}).(*SMTPMailer)
	boom := errors.New("connection refused")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	err := m.SendPasswordReset(context.Background(), "user@example.com", "link")
	assert.ErrorIs(t, err, boom)
}
