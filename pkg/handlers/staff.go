package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// CreateStaffRequest is the payload for creating a staff member.
type CreateStaffRequest struct {
	Username  string      `json:"username"`
	Password  string      `json:"password"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	StartDate string      `json:"start_date,omitempty"` // YYYY-MM-DD
}

// UpdateStaffRequest is the payload for updating role or status.
type UpdateStaffRequest struct {
	Role   models.Role `json:"role"`
	Status string      `json:"status"`
}

// StaffHandler handles the staff roster endpoints.
type StaffHandler struct {
	staff  services.StaffService
	events services.EventService
	logger *zap.Logger
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(staff services.StaffService, events services.EventService, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{staff: staff, events: events, logger: logger}
}

// RegisterRoutes registers the staff handler's routes on the given mux.
// Reads need authentication; writes need a manager.
func (h *StaffHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("GET /api/staff", mw.RequireAuth(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/staff/{id}", mw.RequireAuth(http.HandlerFunc(h.Get)))
	mux.Handle("GET /api/staff/{id}/events", mw.RequireAuth(http.HandlerFunc(h.Events)))
	mux.Handle("POST /api/staff", mw.RequireAuth(mw.RequireManager(http.HandlerFunc(h.Create))))
	mux.Handle("PATCH /api/staff/{id}", mw.RequireAuth(mw.RequireManager(http.HandlerFunc(h.Update))))
}

// Create handles POST /api/staff.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := DecodeJSON(r, &req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	input := services.CreateStaffInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid start_date, want YYYY-MM-DD")
			return
		}
		input.StartDate = &start
	}

	member, err := h.staff.Create(r.Context(), input)
	if err != nil {
		ServiceError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, member); err != nil {
		h.logger.Error("Failed to encode staff response", zap.Error(err))
	}
}

// List handles GET /api/staff.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.staff.List(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"staff": members}); err != nil {
		h.logger.Error("Failed to encode staff list", zap.Error(err))
	}
}

// Get handles GET /api/staff/{id}.
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	member, err := h.staff.Get(r.Context(), id)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, member); err != nil {
		h.logger.Error("Failed to encode staff member", zap.Error(err))
	}
}

// Update handles PATCH /api/staff/{id}.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req UpdateStaffRequest
	if err := DecodeJSON(r, &req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.staff.Update(r.Context(), id, req.Role, req.Status); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events handles GET /api/staff/{id}/events.
func (h *StaffHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.events.ListByStaff(r.Context(), id, limit)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"events": events}); err != nil {
		h.logger.Error("Failed to encode events", zap.Error(err))
	}
}
