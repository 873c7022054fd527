package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// AddEntryRequest is the payload for a manual schedule entry.
type AddEntryRequest struct {
	StaffID   string           `json:"staff_id"`
	Date      string           `json:"date"` // YYYY-MM-DD
	Shift     models.ShiftType `json:"shift_type"`
	Room      *string          `json:"room,omitempty"`
	StartTime string           `json:"start_time,omitempty"`
	EndTime   string           `json:"end_time,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// ScheduleHandler handles schedule generation and maintenance.
type ScheduleHandler struct {
	scheduler services.SchedulerService
	schedule  services.ScheduleService
	clk       clock.Clock
	logger    *zap.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduler services.SchedulerService, schedule services.ScheduleService, clk clock.Clock, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduler: scheduler, schedule: schedule, clk: clk, logger: logger}
}

// RegisterRoutes registers the schedule handler's routes on the given
// mux. Everyone can read the schedule; changing it takes a manager.
func (h *ScheduleHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("GET /api/schedule/week", mw.RequireAuth(http.HandlerFunc(h.Week)))
	mux.Handle("GET /api/schedule/day", mw.RequireAuth(http.HandlerFunc(h.Day)))

	manager := func(fn http.HandlerFunc) http.Handler {
		return mw.RequireAuth(mw.RequireManager(fn))
	}
	mux.Handle("POST /api/schedule/generate", manager(h.Generate))
	mux.Handle("POST /api/schedule/entries", manager(h.AddEntry))
	mux.Handle("DELETE /api/schedule/entries/{id}", manager(h.DeleteEntry))
	mux.Handle("DELETE /api/schedule/week", manager(h.ClearWeek))
}

// Generate handles POST /api/schedule/generate?date=YYYY-MM-DD.
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	day, err := QueryDate(r, "date", h.clk)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.scheduler.GenerateWeek(r.Context(), day)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode generate response", zap.Error(err))
	}
}

// Week handles GET /api/schedule/week?date=YYYY-MM-DD.
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	day, err := QueryDate(r, "date", h.clk)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	grid, err := h.schedule.WeekGrid(r.Context(), day)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, grid); err != nil {
		h.logger.Error("Failed to encode week grid", zap.Error(err))
	}
}

// Day handles GET /api/schedule/day?date=YYYY-MM-DD.
func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	day, err := QueryDate(r, "date", h.clk)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	entries, err := h.schedule.ListForDate(r.Context(), day)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"entries": entries}); err != nil {
		h.logger.Error("Failed to encode day schedule", zap.Error(err))
	}
}

// AddEntry handles POST /api/schedule/entries.
func (h *ScheduleHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := DecodeJSON(r, &req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	staffID, err := ParseUUID(req.StaffID, "staff_id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid date, want YYYY-MM-DD")
		return
	}

	entry, err := h.schedule.AddEntry(r.Context(), services.AddEntryInput{
		StaffID:   staffID,
		Date:      day,
		Shift:     req.Shift,
		Room:      req.Room,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusCreated, entry); err != nil {
		h.logger.Error("Failed to encode schedule entry", zap.Error(err))
	}
}

// DeleteEntry handles DELETE /api/schedule/entries/{id}.
func (h *ScheduleHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.schedule.Delete(r.Context(), id); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearWeek handles DELETE /api/schedule/week?date=YYYY-MM-DD.
func (h *ScheduleHandler) ClearWeek(w http.ResponseWriter, r *http.Request) {
	day, err := QueryDate(r, "date", h.clk)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	removed, err := h.schedule.ClearWeek(r.Context(), day)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]int{"removed": removed}); err != nil {
		h.logger.Error("Failed to encode clear response", zap.Error(err))
	}
}
