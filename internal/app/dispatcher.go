package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// Notification is one message to fan out over email and SMS.
type Notification struct {
	Subject string
	Body    string
	Emails  []string
	Phones  []string
}

// Dispatcher sends notifications over the configured transports.
// Every send is best-effort: transport errors and panics end up in the
// returned DeliveryOutcome and never reach the caller as an error.
type Dispatcher struct {
	email     secondary.EmailTransport // nil when SMTP is not configured
	sms       secondary.SMSTransport   // nil when Twilio is not configured
	fromEmail string
	fromPhone string
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil transport disables its channel.
func NewDispatcher(email secondary.EmailTransport, sms secondary.SMSTransport, fromEmail, fromPhone string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		email:     email,
		sms:       sms,
		fromEmail: fromEmail,
		fromPhone: fromPhone,
		logger:    logger,
	}
}

// Notify delivers n and reports the result per channel. It does not write the message log.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) primary.DeliveryOutcome {
	return primary.DeliveryOutcome{
		Email: d.sendEmail(ctx, n),
		SMS:   d.sendSMS(ctx, n),
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, n Notification) primary.ChannelResult {
	if d.email == nil || len(n.Emails) == 0 {
		return primary.ChannelResult{Status: primary.ChannelSkipped, Sender: d.fromEmail}
	}

	err := guardSend(func() error {
		return d.email.Send(ctx, n.Subject, n.Body, d.fromEmail, n.Emails)
	})
	if err != nil {
		d.logger.Warn("email delivery failed",
			"subject", n.Subject,
			"recipients", len(n.Emails),
			"error", err)
	}

	// One transport call covers every address, so they share its result.
	result := primary.ChannelResult{Sender: d.fromEmail}
	for _, to := range n.Emails {
		result.Attempts = append(result.Attempts, attempt(to, err))
	}
	result.Status = channelStatus(result.Attempts)
	return result
}

func (d *Dispatcher) sendSMS(ctx context.Context, n Notification) primary.ChannelResult {
	if d.sms == nil || len(n.Phones) == 0 {
		return primary.ChannelResult{Status: primary.ChannelSkipped, Sender: d.fromPhone}
	}

	result := primary.ChannelResult{Sender: d.fromPhone}
	for _, to := range n.Phones {
		err := guardSend(func() error {
			return d.sms.Send(ctx, n.Body, d.fromPhone, to)
		})
		if err != nil {
			d.logger.Warn("sms delivery failed", "to", to, "error", err)
		}
		result.Attempts = append(result.Attempts, attempt(to, err))
	}
	result.Status = channelStatus(result.Attempts)
	return result
}

// guardSend runs send and converts a panic into an error.
func guardSend(send func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()
	return send()
}

func attempt(recipient string, err error) primary.DeliveryAttempt {
	if err != nil {
		return primary.DeliveryAttempt{Recipient: recipient, Status: primary.ChannelFailed, Error: err.Error()}
	}
	return primary.DeliveryAttempt{Recipient: recipient, Status: primary.ChannelSent}
}

func channelStatus(attempts []primary.DeliveryAttempt) primary.ChannelStatus {
	if len(attempts) == 0 {
		return primary.ChannelSkipped
	}
	for _, a := range attempts {
		if a.Status == primary.ChannelFailed {
			return primary.ChannelFailed
		}
	}
	return primary.ChannelSent
}
