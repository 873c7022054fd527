package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories.
const (
	NotifyLeaveRequest  = "leave_request"
	NotifyLeaveResponse = "leave_response"
	NotifyKPIScore      = "kpi_score"
	NotifyWarning       = "warning"
	NotifySchedule      = "schedule"
)

// Notification is an in-app message for one staff member.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Link      *string   `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
