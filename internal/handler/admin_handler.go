package handler

import (
	"errors"
	"net/http"

	"jerseylab-api/internal/model"
	"jerseylab-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// resetRequestedMessage is returned for every forgot-password request so the
// endpoint cannot be used to probe which emails are registered.
const resetRequestedMessage = "If that email is registered, a reset link has been sent"

// AdminHandler handles admin account and authentication HTTP requests.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.AdminLoginRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ForgotPassword handles POST /api/admin/forgot-password.
func (h *AdminHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == model.ErrCodeValidation {
			writeServiceError(w, err, h.logger)
			return
		}
		// Delivery failures still get the generic message; only a malformed
		// request surfaces as an error.
		h.logger.Error().Err(err).Msg("forgot password failed")
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": resetRequestedMessage})
}

// ResetPassword handles POST /api/admin/reset-password.
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
}

// List handles GET /api/admin/admins.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if admins == nil {
		admins = []model.Admin{}
	}

	writeJSON(w, http.StatusOK, admins)
}

// Create handles POST /api/admin/admins.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAdminRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	admin, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, admin)
}

// Delete handles DELETE /api/admin/admins/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid admin ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin deleted"})
}
