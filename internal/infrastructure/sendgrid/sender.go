// Package sendgrid delivers email through the SendGrid v3 mail API.
package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultHost = "https://api.sendgrid.com"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Sender implements email delivery through SendGrid.
type Sender struct {
	client *sg.Client
	from   *mail.Email
}

// NewSender requires both the API key and the sender address.
func NewSender(apiKey, senderEmail string) (*Sender, error) {
	return newSender(apiKey, senderEmail, defaultHost)
}

func newSender(apiKey, senderEmail, host string) (*Sender, error) {
	if apiKey == "" || senderEmail == "" {
		return nil, errors.New("sendgrid API key and sender email are required")
	}
	req := sg.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"
	return &Sender{
		client: &sg.Client{Request: req},
		from:   mail.NewEmail("", senderEmail),
	}, nil
}

// SendEmail treats any status >= 300 as a delivery failure.
func (s *Sender) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), plainText(htmlBody), htmlBody)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}

func plainText(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}
