package messaging

import (
	"context"

	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

// LogMessenger writes outbound messages to the log instead of sending them.
// Used in local mode.
type LogMessenger struct{}

func NewLogMessenger() *LogMessenger {
	return &LogMessenger{}
}

func (LogMessenger) Send(ctx context.Context, msg domain.OutboundMessage) error {
	observability.LoggerFromContext(ctx).Info("outbound message",
		"user_id", msg.To,
		"body", msg.Body,
		"media_url", msg.MediaURL)
	return nil
}
