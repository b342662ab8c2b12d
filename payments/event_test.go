package payments

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

func TestDecodeEventCheckoutCompleted(t *testing.T) {
	raw := `{
		"id": "cs_1",
		"payment_intent": "pi_123",
		"payment_status": "paid",
		"metadata": {"userId": "u1", "addressId": "a1"}
	}`
	event := stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}

	decoded, err := DecodeEvent(event)
	require.NoError(t, err)

	completed, ok := decoded.(CheckoutCompleted)
	require.True(t, ok)
	assert.Equal(t, "cs_1", completed.Session.ID)
	assert.Equal(t, "pi_123", completed.Session.PaymentIntent.ID)
	assert.Equal(t, stripe.CheckoutSessionPaymentStatusPaid, completed.Session.PaymentStatus)
	assert.Equal(t, "u1", completed.Session.Metadata["userId"])
}

func TestDecodeEventUnhandledType(t *testing.T) {
	event := stripe.Event{
		Type: "invoice.paid",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}

	decoded, err := DecodeEvent(event)
	require.NoError(t, err)

	unhandled, ok := decoded.(Unhandled)
	require.True(t, ok)
	assert.Equal(t, "invoice.paid", unhandled.Type)
}

func TestDecodeEventMalformedPayload(t *testing.T) {
	event := stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: json.RawMessage(`{not json`)},
	}

	_, err := DecodeEvent(event)
	assert.Error(t, err)
}
