package services

import (
	"context"
	"fmt"
	"net/smtp"

	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/utils"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	log  *logger.Logger
	addr string
	auth smtp.Auth
	from string
}

// NewMailer reads SMTP settings from the environment. Without SMTP_HOST it
// degrades to a logging mailer so local development does not need a relay.
func NewMailer(log *logger.Logger) Mailer {
	mailerLog := log.With("service", "Mailer")
	host := utils.GetEnv("SMTP_HOST", "", mailerLog)
	if host == "" {
		mailerLog.Warn("SMTP_HOST not set, outgoing mail will only be logged")
		return &logMailer{log: mailerLog}
	}
	port := utils.GetEnv("SMTP_PORT", "587", mailerLog)
	username := utils.GetEnv("SMTP_USERNAME", "", mailerLog)
	password := utils.GetEnv("SMTP_PASSWORD", "", mailerLog)
	from := utils.GetEnv("SMTP_FROM", username, mailerLog)

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &smtpMailer{
		log:  mailerLog,
		addr: host + ":" + port,
		auth: auth,
		from: from,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: send mail: %v", apperrors.ErrExternalService, err)
	}
	return nil
}

type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("outgoing mail (not sent)", "to", to, "subject", subject, "body", body)
	return nil
}
