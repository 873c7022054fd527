package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// SubmitScoresRequest is the payload for scoring one staff member's
// month.
type SubmitScoresRequest struct {
	Month  int                   `json:"month"`
	Year   int                   `json:"year"`
	Scores []services.ScoreInput `json:"scores"`
}

// KPIHandler handles KPI definitions, scoring and aggregation.
type KPIHandler struct {
	kpi    services.KPIService
	clk    clock.Clock
	logger *zap.Logger
}

// NewKPIHandler creates a new KPIHandler.
func NewKPIHandler(kpi services.KPIService, clk clock.Clock, logger *zap.Logger) *KPIHandler {
	return &KPIHandler{kpi: kpi, clk: clk, logger: logger}
}

// RegisterRoutes registers the KPI handler's routes on the given mux.
func (h *KPIHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.Handle("GET /api/kpi/definitions", mw.RequireAuth(http.HandlerFunc(h.Definitions)))
	mux.Handle("GET /api/kpi/rankings", mw.RequireAuth(http.HandlerFunc(h.Rankings)))
	mux.Handle("GET /api/staff/{id}/kpi/summary", mw.RequireAuth(http.HandlerFunc(h.Summary)))
	mux.Handle("GET /api/staff/{id}/kpi/history", mw.RequireAuth(http.HandlerFunc(h.History)))
	mux.Handle("POST /api/staff/{id}/kpi/scores",
		mw.RequireAuth(mw.RequireManager(http.HandlerFunc(h.SubmitScores))))
}

// Definitions handles GET /api/kpi/definitions?role=.
func (h *KPIHandler) Definitions(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))

	defs, err := h.kpi.Definitions(r.Context(), role)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"definitions": defs}); err != nil {
		h.logger.Error("Failed to encode KPI definitions", zap.Error(err))
	}
}

// SubmitScores handles POST /api/staff/{id}/kpi/scores.
func (h *KPIHandler) SubmitScores(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req SubmitScoresRequest
	if err := DecodeJSON(r, &req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.kpi.SubmitScores(r.Context(), id, req.Month, req.Year, req.Scores)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode score result", zap.Error(err))
	}
}

// Summary handles GET /api/staff/{id}/kpi/summary?month=&year=.
func (h *KPIHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	month, year := monthYearParams(r, h.clk)
	summary, err := h.kpi.MonthlySummary(r.Context(), id, month, year)
	if err != nil {
		ServiceError(w, err)
		return
	}

	// Summary stays null in the response when the month has no score.
	response := map[string]any{"month": month, "year": year, "summary": summary}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode KPI summary", zap.Error(err))
	}
}

// History handles GET /api/staff/{id}/kpi/history?months=.
func (h *KPIHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := PathUUID(r, "id")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	history, err := h.kpi.History(r.Context(), id, months)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"history": history}); err != nil {
		h.logger.Error("Failed to encode KPI history", zap.Error(err))
	}
}

// Rankings handles GET /api/kpi/rankings?month=&year=.
func (h *KPIHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearParams(r, h.clk)

	result, err := h.kpi.Rankings(r.Context(), month, year)
	if err != nil {
		ServiceError(w, err)
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode rankings", zap.Error(err))
	}
}

// monthYearParams reads month and year query parameters, defaulting to
// the clock's current month.
func monthYearParams(r *http.Request, clk clock.Clock) (int, int) {
	now := clk.Now().UTC()
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}
