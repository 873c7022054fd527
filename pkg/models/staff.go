package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// StaffMember is a member of the practice team.
type StaffMember struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsActive reports whether the staff member is currently employed.
func (s *StaffMember) IsActive() bool {
	return s.Status == StatusActive
}
