package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the authenticated profile.
type LoginResponse struct {
	Token string              `json:"token"`
	Staff *models.StaffMember `json:"staff"`
}

// AuthHandler handles login.
type AuthHandler struct {
	staff  services.StaffService
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(staff services.StaffService, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{staff: staff, tokens: tokens, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	member, err := h.staff.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		ServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(member)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if err := WriteJSON(w, http.StatusOK, LoginResponse{Token: token, Staff: member}); err != nil {
		h.logger.Error("Failed to encode login response", zap.Error(err))
	}
}
