// Package payment abstracts the external payment provider. The checkout
// service talks to the Provider and WebhookVerifier interfaces so that the
// reconciliation logic can be tested without network access.
package payment

import "context"

// Intent statuses reported by the provider. Only StatusSucceeded permits
// order creation.
const StatusSucceeded = "succeeded"

// Intent is a provider-side payment authorization. AmountCents is the amount
// the provider authorized, in minor-currency units; once an intent succeeds
// it is the authoritative record of what was charged.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
}

// CreateParams holds the inputs for opening a payment authorization. Amount
// is in integer minor-currency units (cents).
type CreateParams struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// Provider opens and retrieves payment intents. Implementations must bound
// every call with a timeout and surface provider failures as errors.
type Provider interface {
	CreateIntent(ctx context.Context, params CreateParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

// Webhook event types the reconciler reacts to. Other event types are
// acknowledged and ignored.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Event is a verified webhook delivery.
type Event struct {
	Type            string
	PaymentIntentID string
}

// WebhookVerifier authenticates a raw webhook payload against the provider's
// signature header before any of its content is trusted.
type WebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (Event, error)
}
