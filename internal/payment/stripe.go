package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeProvider implements Provider and WebhookVerifier against the Stripe
// API.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	timeout       time.Duration
	logger        zerolog.Logger
}

// NewStripeProvider creates a Stripe-backed provider. timeout bounds every
// API call.
func NewStripeProvider(secretKey, webhookSecret string, timeout time.Duration, logger zerolog.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
		timeout:       timeout,
		logger:        logger.With().Str("component", "stripe").Logger(),
	}
}

// CreateIntent opens a payment authorization for the given amount.
func (p *StripeProvider) CreateIntent(ctx context.Context, params CreateParams) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	piParams := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(params.AmountCents),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(piParams)
	if err != nil {
		p.logger.Error().Err(err).Int64("amount_cents", params.AmountCents).Msg("failed to create payment intent")
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	p.logger.Debug().
		Str("payment_intent_id", pi.ID).
		Int64("amount_cents", params.AmountCents).
		Msg("payment intent created")

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
	}, nil
}

// GetIntent retrieves the current provider-side state of an intent.
func (p *StripeProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	pi, err := p.api.PaymentIntents.Get(id, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		p.logger.Error().Err(err).Str("payment_intent_id", id).Msg("failed to retrieve payment intent")
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
	}, nil
}

// Verify authenticates a webhook payload and extracts the event type and the
// payment intent it refers to.
func (p *StripeProvider) Verify(payload []byte, signatureHeader string) (Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, p.webhookSecret)
	if err != nil {
		return Event{}, err
	}

	var object struct {
		ID string `json:"id"`
	}
	if len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
			return Event{}, fmt.Errorf("failed to decode event object: %w", err)
		}
	}

	return Event{
		Type:            string(event.Type),
		PaymentIntentID: object.ID,
	}, nil
}
