package handler

import (
	"net/http"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PromoHandler handles promo code HTTP requests.
type PromoHandler struct {
	service service.PromoService
	logger  zerolog.Logger
}

// NewPromoHandler creates a new promo code handler.
func NewPromoHandler(service service.PromoService, logger zerolog.Logger) *PromoHandler {
	return &PromoHandler{
		service: service,
		logger:  logger.With().Str("handler", "promo").Logger(),
	}
}

// Validate handles POST /api/promo-codes/validate. An invalid code is still a
// 200; validity lives in the body so the storefront can render it inline.
func (h *PromoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidatePromoRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/admin/promo-codes.
func (h *PromoHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if codes == nil {
		codes = []model.PromoCode{}
	}

	writeJSON(w, http.StatusOK, codes)
}

// Create handles POST /api/admin/promo-codes.
func (h *PromoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var pc model.PromoCode
	if !decodeJSON(w, r, &pc, h.logger) {
		return
	}

	created, err := h.service.Create(r.Context(), &pc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/promo-codes/{id}.
func (h *PromoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promo code ID", h.logger)
		return
	}

	var pc model.PromoCode
	if !decodeJSON(w, r, &pc, h.logger) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, &pc)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/promo-codes/{id}.
func (h *PromoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid promo code ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Promo code deleted"})
}
