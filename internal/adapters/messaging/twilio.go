package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

const whatsAppPrefix = "whatsapp:"

// MessageCreator is the part of the Twilio REST API used to send messages.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioMessenger delivers WhatsApp messages through Twilio.
type TwilioMessenger struct {
	api  MessageCreator
	from string
}

// NewTwilioMessenger builds a messenger from account credentials. from is the
// WhatsApp sender number, with or without the "whatsapp:" prefix.
func NewTwilioMessenger(accountSID, authToken, from string) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioMessengerWithAPI(client.Api, from)
}

func NewTwilioMessengerWithAPI(api MessageCreator, from string) *TwilioMessenger {
	return &TwilioMessenger{api: api, from: WhatsAppAddress(from)}
}

// Send implements domain.Messenger.
func (m *TwilioMessenger) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return errors.New("twilio: recipient is required")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(WhatsAppAddress(string(msg.To)))
	params.SetFrom(m.from)
	params.SetBody(msg.Body)
	if msg.MediaURL != "" {
		params.SetMediaUrl([]string{msg.MediaURL})
	}

	resp, err := m.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: create message: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	observability.LoggerFromContext(ctx).Debug("whatsapp message sent",
		"user_id", msg.To,
		"message_sid", sid,
		"media", msg.MediaURL != "")
	return nil
}

// WhatsAppAddress adds the "whatsapp:" channel prefix when missing.
func WhatsAppAddress(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}
