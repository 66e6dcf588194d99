package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Config holds Mailgun credentials.
type Config struct {
	Domain string
	APIKey string
	Sender string
}

// Client sends transactional email through Mailgun.
type Client struct {
	domain string
	apiKey string
	sender string
}

// NewClient creates a new Mailgun-backed mail client.
func NewClient(cfg Config) *Client {
	return &Client{
		domain: cfg.Domain,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
	}
}

// SendEmail sends a plain-text email. Callers treat delivery as
// fire-and-forget; the returned error is only useful for logging.
func (c *Client) SendEmail(to, subject, body string) error {
	client := mg.NewMailgun(c.domain, c.apiKey)
	msg := client.NewMessage(c.sender, subject, body, to)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, _, err := client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
