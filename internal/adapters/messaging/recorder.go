package messaging

import (
	"context"
	"sync"

	"github.com/PabloGalante/travelbot/internal/domain"
)

// Recorder keeps every message it is asked to send. FailWhen, if set, makes
// Send fail for the matching messages; they are still recorded.
type Recorder struct {
	FailWhen func(msg domain.OutboundMessage) error

	mu   sync.Mutex
	sent []domain.OutboundMessage
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(_ context.Context, msg domain.OutboundMessage) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	fail := r.FailWhen
	r.mu.Unlock()

	if fail != nil {
		return fail(msg)
	}
	return nil
}

// Messages returns a copy of what was sent so far.
func (r *Recorder) Messages() []domain.OutboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.OutboundMessage, len(r.sent))
	copy(out, r.sent)
	return out
}

// MessagesTo returns the messages sent to one user.
func (r *Recorder) MessagesTo(to domain.UserID) []domain.OutboundMessage {
	var out []domain.OutboundMessage
	for _, m := range r.Messages() {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}
