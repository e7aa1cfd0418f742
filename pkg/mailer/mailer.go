package mailer

import (
	"context"
	"fmt"
	"log"

	mail "github.com/wneessen/go-mail"

	"github.com/benytrp/e3-ordertst/internal/notify"
)

// Config holds SMTP connection details.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Client sends composed notification messages over SMTP. It implements
// notify.Transport.
type Client struct {
	client *mail.Client
}

// NewClient creates a new SMTP client. Connection problems surface on the
// first send, credential and option problems here.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	log.Printf("SMTP client configured for %s:%d", cfg.Host, cfg.Port)

	return &Client{client: client}, nil
}

// Send delivers one message with a plain-text body and an HTML
// alternative. A single failed attempt is terminal; retries are the
// caller's problem, and here nobody retries.
func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)

	if err := c.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", msg.To, err)
	}
	return nil
}
