package models

import (
	"time"

	"github.com/google/uuid"
)

// Performance event types.
const (
	EventKPIScore    = "KPI_Score"
	EventLeave       = "Leave"
	EventWarning     = "Warning"
	EventRecognition = "Recognition"
)

// PerformanceEvent is an append-only history record of KPI scoring,
// leave decisions, and warnings. It is a log, not re-derivable state.
type PerformanceEvent struct {
	ID          uuid.UUID      `json:"id"`
	StaffID     uuid.UUID      `json:"staff_id"`
	Type        string         `json:"event_type"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedBy   uuid.UUID      `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
}
