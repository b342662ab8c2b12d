package payments

import (
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Gateway wraps the payment provider operations used by checkout and
// webhook reconciliation.
type Gateway interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	SessionLineItems(sessionID string) ([]*stripe.LineItem, error)
	Product(productID string) (*stripe.Product, error)
	VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error)
}

type stripeGateway struct {
	api            *client.API
	endpointSecret string
}

// NewStripeGateway creates a Gateway backed by the Stripe API. The
// endpoint secret is required for webhook signature verification.
func NewStripeGateway(secretKey, endpointSecret string) Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{
		api:            api,
		endpointSecret: endpointSecret,
	}
}

func (g *stripeGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return g.api.CheckoutSessions.New(params)
}

func (g *stripeGateway) SessionLineItems(sessionID string) ([]*stripe.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}

	var items []*stripe.LineItem
	iter := g.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	return items, iter.Err()
}

func (g *stripeGateway) Product(productID string) (*stripe.Product, error) {
	return g.api.Products.Get(productID, nil)
}

func (g *stripeGateway) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, g.endpointSecret)
}
