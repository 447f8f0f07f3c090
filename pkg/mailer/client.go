package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP transport configuration.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Notifier defines the interface for sending a single email message.
type Notifier interface {
	Send(to, subject, textBody, htmlBody string) error
}

// client is an SMTP implementation of Notifier.
type client struct {
	dialer *gomail.Dialer
	from   string
}

// NewClient creates a new SMTP notifier client.
func NewClient(cfg Config) (Notifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &client{
		dialer: gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// NewDisabled returns a Notifier whose sends always fail. It lets the
// rest of the pipeline run without SMTP configuration; every dispatch is
// recorded as failed.
func NewDisabled() Notifier {
	return disabled{}
}

type disabled struct{}

func (disabled) Send(to, subject, textBody, htmlBody string) error {
	return fmt.Errorf("smtp transport is not configured")
}

// Send delivers one message with plain-text and HTML alternatives.
func (c *client) Send(to, subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}
	return c.dialer.DialAndSend(m)
}
