// Package sms contains the Twilio implementation of the SMSTransport port.
package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/example/desas/internal/ports/secondary"
)

// messageCreator is the slice of the Twilio REST API this adapter uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioTransport sends text messages through the Twilio Messages API.
type TwilioTransport struct {
	api messageCreator
}

// NewTwilioTransport creates a transport authenticated with an account SID and auth token.
func NewTwilioTransport(accountSID, authToken string) *TwilioTransport {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioTransport{api: client.Api}
}

// Send delivers one text message to a single number.
func (t *TwilioTransport) Send(ctx context.Context, body, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := t.api.CreateMessage(params); err != nil {
		var restErr *twclient.TwilioRestError
		if errors.As(err, &restErr) {
			return fmt.Errorf("twilio rejected message to %s (code %d): %s", to, restErr.Code, restErr.Message)
		}
		return fmt.Errorf("failed to send sms to %s: %w", to, err)
	}
	return nil
}

// Ensure TwilioTransport implements the interface.
var _ secondary.SMSTransport = (*TwilioTransport)(nil)
