// Package mailer delivers mail through a pooled SMTP connection.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/jordan-wright/email"
	"github.com/knadh/smtppool"
)

const sendTimeout = 15 * time.Second

// Config describes the outbound SMTP server and sender identity.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPMailer keeps a small connection pool to the configured server.
type SMTPMailer struct {
	pool *smtppool.Pool
	from string
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	pool, err := smtppool.New(smtppool.Opt{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxConns:        2,
		IdleTimeout:     sendTimeout,
		PoolWaitTimeout: sendTimeout,
		TLSConfig:       &tls.Config{ServerName: cfg.Host},
		Auth:            auth,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp pool: %w", err)
	}
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	return &SMTPMailer{pool: pool, from: from}, nil
}

// Send delivers one HTML mail to a single recipient.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	e := &email.Email{
		To:      []string{to},
		From:    m.from,
		Subject: subject,
		HTML:    []byte(htmlBody),
		Headers: textproto.MIMEHeader{},
	}
	return m.pool.Send(e, sendTimeout)
}
