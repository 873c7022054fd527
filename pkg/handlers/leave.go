package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// SubmitLeaveRequest is the payload for requesting leave.
type SubmitLeaveRequest struct {
	StaffID   string           `json:"staff_id,omitempty"`
	Type      models.LeaveType `json:"leave_type"`
	StartDate string           `json:"start_date"` // YYYY-MM-DD
	EndDate   string           `json:"end_date"`   // YYYY-MM-DD
	Reason    string           `json:"reason,omitempty"`
}

// DecideLeaveRequest carries optional decision notes.
type DecideLeaveRequest struct {
	Notes string `json:"notes,omitempty"`
}

// LeaveHandler handles the leave request lifecycle.
type LeaveHandler struct {
	leave  services.LeaveService
	clk    clock.Clock
	logger *zap.Logger
}

// NewLeaveHandler creates a new LeaveHandler.
func NewLeaveHandler(leave services.LeaveService, clk clock.Clock, logger *zap.Logger) *LeaveHandler {
	return &LeaveHandler{leave: leave, clk: clk, logger: logger}
}

// RegisterRoutes registers the leave handler's routes on the given mux.
func (h *LeaveHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("POST /api/leave", mw.RequireAuth(http.HandlerFunc(h.Submit)))
	mux.Handle("GET /api/staff/{id}/leave", mw.RequireAuth(http.HandlerFunc(h.ListByStaff)))
	mux.Handle("GET /api/staff/{id}/leave/balance", mw.RequireAuth(http.HandlerFunc(h.Balance)))

	manager := func(fn http.HandlerFunc) http.Handler {
		return mw.RequireAuth(mw.RequireManager(fn))
	}
	mux.Handle("GET /api/leave/pending", manager(h.ListPending))
	mux.Handle("POST /api/leave/{id}/approve", manager(h.Approve))
	mux.Handle("POST /api/leave/{id}/reject", manager(h.Reject))
}

// Submit handles POST /api/leave. Staff submit for themselves;
// managers may submit on another staff member's behalf.
func (h *LeaveHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if err := DecodeJSON(r, &req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	actor, _ := models.GetActor(r.Context())
	staffID := actor.ID
	if req.StaffID != "" {
		id, err := ParseUUID(req.StaffID, "staff_id")
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if id != actor.ID && !actor.Role.IsManager() {
			_ = ErrorResponse(w, http.StatusForbidden, "forbidden", "cannot submit leave for another staff member")
			return
		}
		staffID = id
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid start_date, want YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid end_date, want YYYY-MM-DD")
		return
	}

	created, err := h.leave.Submit(r.Context(), services.SubmitLeaveInput{
		StaffID:   staffID,
		Type:      req.Type,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, created); err != nil {
		h.logger.Error("Failed to encode leave request", zap.Error(err))
	}
}

// ListPending handles GET /api/leave/pending.
func (h *LeaveHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.leave.ListPending(r.Context())
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"requests": requests}); err != nil {
		h.logger.Error("Failed to encode pending leave", zap.Error(err))
	}
}

// ListByStaff handles GET /api/staff/{id}/leave.
func (h *LeaveHandler) ListByStaff(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	requests, err := h.leave.ListByStaff(r.Context(), id)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"requests": requests}); err != nil {
		h.logger.Error("Failed to encode leave list", zap.Error(err))
	}
}

// Approve handles POST /api/leave/{id}/approve.
func (h *LeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leave.Approve)
}

// Reject handles POST /api/leave/{id}/reject.
func (h *LeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.leave.Reject)
}

func (h *LeaveHandler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID, notes string) (*services.LeaveDecision, error)) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req DecideLeaveRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	decision, err := fn(r.Context(), id, req.Notes)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, decision); err != nil {
		h.logger.Error("Failed to encode leave decision", zap.Error(err))
	}
}

// Balance handles GET /api/staff/{id}/leave/balance?year=.
func (h *LeaveHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	if year == 0 {
		year = h.clk.Now().UTC().Year()
	}

	balance, err := h.leave.Balance(r.Context(), id, year)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, balance); err != nil {
		h.logger.Error("Failed to encode leave balance", zap.Error(err))
	}
}
