package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// NotificationHandler handles the authenticated user's notification
// feed.
type NotificationHandler struct {
	notifications services.NotificationService
	logger        *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// RegisterRoutes registers the notification handler's routes on the
// given mux.
func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("GET /api/notifications", mw.RequireAuth(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/notifications/{id}/read", mw.RequireAuth(http.HandlerFunc(h.MarkRead)))
}

// List handles GET /api/notifications?unread=true.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := models.GetActor(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.notifications.ListForUser(r.Context(), actor.ID, unreadOnly)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"notifications": notifications}); err != nil {
		h.logger.Error("Failed to encode notifications", zap.Error(err))
	}
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	actor, _ := models.GetActor(r.Context())
	if err := h.notifications.MarkRead(r.Context(), id, actor.ID); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
