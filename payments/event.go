package payments

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
)

// WebhookEvent is the decoded form of a provider event. Handlers switch on
// the concrete type; Unhandled covers every event kind the system does not
// act on.
type WebhookEvent interface {
	webhookEvent()
}

// CheckoutCompleted is a "checkout.session.completed" event.
type CheckoutCompleted struct {
	Session stripe.CheckoutSession
}

// Unhandled is any event kind the system acknowledges but ignores.
type Unhandled struct {
	Type string
}

func (CheckoutCompleted) webhookEvent() {}
func (Unhandled) webhookEvent()         {}

// DecodeEvent maps a verified provider event onto the WebhookEvent union.
func DecodeEvent(event stripe.Event) (WebhookEvent, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		return CheckoutCompleted{Session: session}, nil
	default:
		return Unhandled{Type: string(event.Type)}, nil
	}
}
