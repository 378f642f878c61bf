package handler

import (
	"fmt"
	"io"
	"net/http"

	"jerseylab-api/internal/payment"
	"jerseylab-api/internal/service"

	"github.com/rs/zerolog"
)

// maxWebhookBody bounds the raw webhook payload size.
const maxWebhookBody = 64 * 1024

// WebhookHandler receives payment provider webhook deliveries.
type WebhookHandler struct {
	verifier payment.WebhookVerifier
	service  service.CheckoutService
	logger   zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(verifier payment.WebhookVerifier, service service.CheckoutService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		service:  service,
		logger:   logger.With().Str("handler", "webhook").Logger(),
	}
}

// Handle handles POST /api/webhooks/stripe. The raw body must be verified
// against the signature header before any of it is parsed.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read webhook body")
		http.Error(w, "Webhook Error: failed to read body", http.StatusBadRequest)
		return
	}

	event, err := h.verifier.Verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("webhook signature verification failed")
		http.Error(w, fmt.Sprintf("Webhook Error: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.service.HandleWebhookEvent(r.Context(), event); err != nil {
		// The provider redelivers on non-2xx; let it retry transient failures.
		h.logger.Error().Err(err).Str("type", event.Type).Msg("failed to process webhook event")
		http.Error(w, "Webhook processing failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
