package secondary

import "context"

// EmailTransport defines the secondary port for outgoing email.
type EmailTransport interface {
	// Send delivers one message to all recipients.
	Send(ctx context.Context, subject, body, from string, to []string) error
}

// SMSTransport defines the secondary port for outgoing text messages.
type SMSTransport interface {
	// Send delivers one text message to a single number.
	Send(ctx context.Context, body, from, to string) error
}
