package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer delivers transactional mail over SMTP
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// SendOTP sends the verification code to the given address
func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string) error {
	subject := "OTP Verification"
	body := fmt.Sprintf("Your OTP for verification is: %s. This OTP will expire in 10 minutes.", code)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
