package handler

import (
	"net/http"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InquiryHandler handles teamwear inquiry HTTP requests.
type InquiryHandler struct {
	service service.InquiryService
	logger  zerolog.Logger
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(service service.InquiryService, logger zerolog.Logger) *InquiryHandler {
	return &InquiryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inquiry").Logger(),
	}
}

// Create handles POST /api/teamwear-inquiries.
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var inquiry model.TeamwearInquiry
	if !decodeJSON(w, r, &inquiry, h.logger) {
		return
	}

	created, err := h.service.Create(r.Context(), &inquiry)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/admin/teamwear-inquiries.
func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if inquiries == nil {
		inquiries = []model.TeamwearInquiry{}
	}

	writeJSON(w, http.StatusOK, inquiries)
}

// Update handles PUT /api/admin/teamwear-inquiries/{id}.
func (h *InquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inquiry ID", h.logger)
		return
	}

	var upd model.InquiryUpdate
	if !decodeJSON(w, r, &upd, h.logger) {
		return
	}

	inquiry, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, inquiry)
}
