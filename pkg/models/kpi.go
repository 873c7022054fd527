package models

import (
	"time"

	"github.com/google/uuid"
)

// KPI score values: each KPI is either met or not met for the month.
const (
	KPINotMet = 0
	KPIMet    = 1
)

// KPICategory groups related KPI definitions for one role.
type KPICategory struct {
	ID     uuid.UUID `json:"id"`
	Role   Role      `json:"role"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// KPIDefinition is a single measurable indicator scoped to a role.
type KPIDefinition struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Role        Role      `json:"role"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
}

// KPIScore records one staff member's result for one KPI in one month.
// At most one score exists per (staff, kpi, month, year).
type KPIScore struct {
	ID       uuid.UUID `json:"id"`
	StaffID  uuid.UUID `json:"staff_id"`
	KPIID    uuid.UUID `json:"kpi_id"`
	Month    int       `json:"month"`
	Year     int       `json:"year"`
	Score    int       `json:"score"` // KPINotMet or KPIMet
	Notes    string    `json:"notes,omitempty"`
	ScoredBy uuid.UUID `json:"scored_by"`
	ScoredAt time.Time `json:"scored_at"`
}

// MonthlySummary is the aggregate KPI result for one staff member and
// period. A nil summary means "no score", which is distinct from 0%.
type MonthlySummary struct {
	Met         int     `json:"met"`
	Scored      int     `json:"scored"`
	Percentage  float64 `json:"percentage"`
	TotalKPIs   int     `json:"total_kpis"`
	FullyScored bool    `json:"fully_scored"`
}

// MonthName returns the English month name for a 1-12 month number.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}
