package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Intent is the slice of a gateway payment intent the rest of the system
// needs: the correlation id and the client secret the frontend confirms with.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway creates payment intents. Services depend on this interface so the
// checkout flow is testable without Stripe.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
}

// StripeGateway is the production Gateway backed by the Stripe API.
type StripeGateway struct{}

func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// VerifyEvent checks the webhook signature and parses the event.
func VerifyEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, secret)
}

// ParseEventUnverified decodes a webhook payload without checking the
// signature. Only used when no webhook secret is configured (degraded mode).
func ParseEventUnverified(payload []byte) (stripe.Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, fmt.Errorf("parse webhook payload: %w", err)
	}
	return event, nil
}

// EventIntentID extracts the payment intent id from a payment_intent.* event.
// Unverified payloads may carry no data object at all, so Data can be nil.
func EventIntentID(event *stripe.Event) string {
	if event.Data == nil {
		return ""
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
		return ""
	}
	return obj.ID
}
