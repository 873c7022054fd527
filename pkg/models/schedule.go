package models

import (
	"time"

	"github.com/google/uuid"
)

// ShiftType is the kind of shift a schedule entry represents.
type ShiftType string

const (
	ShiftFullDay   ShiftType = "Full Day"
	ShiftMorning   ShiftType = "Morning"
	ShiftAfternoon ShiftType = "Afternoon"
	ShiftOff       ShiftType = "Off"
)

// ValidShiftTypes contains all recognized shift types.
var ValidShiftTypes = []ShiftType{ShiftFullDay, ShiftMorning, ShiftAfternoon, ShiftOff}

// Valid reports whether t is a recognized shift type.
func (t ShiftType) Valid() bool {
	for _, v := range ValidShiftTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ScheduleEntry assigns one staff member to one working day.
// At most one entry exists per (staff, date); the schema enforces it.
type ScheduleEntry struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uuid.UUID `json:"staff_id"`
	Date      time.Time `json:"date"`
	Shift     ShiftType `json:"shift_type"`
	Room      *string   `json:"room,omitempty"`
	StartTime string    `json:"start_time"` // HH:MM
	EndTime   string    `json:"end_time"`   // HH:MM
	Notes     string    `json:"notes,omitempty"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
