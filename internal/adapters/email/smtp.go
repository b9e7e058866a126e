// Package email contains the SMTP implementation of the EmailTransport port.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/example/desas/internal/ports/secondary"
)

// SMTPTransport sends plain-text mail through an SMTP relay.
type SMTPTransport struct {
	dialer *gomail.Dialer
	// sender overrides the dialer; used by tests.
	sender gomail.Sender
}

// NewSMTPTransport creates a transport for the given relay. Credentials may be empty for open relays.
func NewSMTPTransport(host string, port int, username, password string) *SMTPTransport {
	return &SMTPTransport{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send delivers one message addressed to every recipient.
func (t *SMTPTransport) Send(ctx context.Context, subject, body, from string, to []string) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	// gomail has no context support, so the send runs aside and the caller stops waiting on ctx.
	done := make(chan error, 1)
	go func() {
		if t.sender != nil {
			done <- gomail.Send(t.sender, m)
			return
		}
		done <- t.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email via %s: %w", t.dialer.Host, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email via %s: %w", t.dialer.Host, ctx.Err())
	}
}

// Ensure SMTPTransport implements the interface.
var _ secondary.EmailTransport = (*SMTPTransport)(nil)
