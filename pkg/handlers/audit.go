package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// AuditHandler exposes the audit log to managers.
type AuditHandler struct {
	audit  services.AuditService
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit services.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: logger}
}

// RegisterRoutes registers the audit handler's routes on the given mux.
func (h *AuditHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("GET /api/audit", mw.RequireAuth(mw.RequireManager(http.HandlerFunc(h.List))))
}

// List handles GET /api/audit?limit=.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.audit.List(r.Context(), limit)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"entries": entries}); err != nil {
		h.logger.Error("Failed to encode audit log", zap.Error(err))
	}
}
