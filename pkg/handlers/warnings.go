package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// IssueWarningRequest is the payload for a manual warning.
type IssueWarningRequest struct {
	StaffID string             `json:"staff_id"`
	Type    models.WarningType `json:"warning_type"`
	Reason  string             `json:"reason"`
}

// WarningHandler handles disciplinary warnings.
type WarningHandler struct {
	warnings services.WarningService
	logger   *zap.Logger
}

// NewWarningHandler creates a new WarningHandler.
func NewWarningHandler(warnings services.WarningService, logger *zap.Logger) *WarningHandler {
	return &WarningHandler{warnings: warnings, logger: logger}
}

// RegisterRoutes registers the warning handler's routes on the given
// mux. Warnings are manager territory except reading your own.
func (h *WarningHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("GET /api/staff/{id}/warnings", mw.RequireAuth(http.HandlerFunc(h.ListByStaff)))

	manager := func(fn http.HandlerFunc) http.Handler {
		return mw.RequireAuth(mw.RequireManager(fn))
	}
	mux.Handle("GET /api/warnings", manager(h.List))
	mux.Handle("POST /api/warnings", manager(h.Issue))
}

// Issue handles POST /api/warnings.
func (h *WarningHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueWarningRequest
	if err := DecodeJSON(r, &req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	staffID, err := ParseUUID(req.StaffID, "staff_id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	warning, err := h.warnings.Issue(r.Context(), staffID, req.Type, req.Reason)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, warning); err != nil {
		h.logger.Error("Failed to encode warning", zap.Error(err))
	}
}

// List handles GET /api/warnings.
func (h *WarningHandler) List(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.warnings.List(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"warnings": warnings}); err != nil {
		h.logger.Error("Failed to encode warnings", zap.Error(err))
	}
}

// ListByStaff handles GET /api/staff/{id}/warnings. Staff may read
// their own record; anything else takes a manager.
func (h *WarningHandler) ListByStaff(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	actor, _ := models.GetActor(r.Context())
	if id != actor.ID && !actor.Role.IsManager() {
		_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "cannot read another staff member's warnings")
		return
	}

	warnings, err := h.warnings.ListByStaff(r.Context(), id)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"warnings": warnings}); err != nil {
		h.logger.Error("Failed to encode warnings", zap.Error(err))
	}
}
