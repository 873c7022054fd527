package models

import (
	"time"

	"github.com/google/uuid"
)

// WarningType classifies a disciplinary warning.
type WarningType string

const (
	WarningKPIFailed WarningType = "KPI_Failed"
	WarningVerbal    WarningType = "Verbal"
	WarningWritten   WarningType = "Written"
	WarningFinal     WarningType = "Final"
)

// ValidWarningTypes contains all recognized warning types.
var ValidWarningTypes = []WarningType{WarningKPIFailed, WarningVerbal, WarningWritten, WarningFinal}

// Valid reports whether t is a recognized warning type.
func (t WarningType) Valid() bool {
	for _, v := range ValidWarningTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Warning is a disciplinary record. Warnings are append-only; the
// engine never mutates or deletes them. IssuedBy is nil for warnings
// the system generates itself.
type Warning struct {
	ID            uuid.UUID   `json:"id"`
	StaffID       uuid.UUID   `json:"staff_id"`
	Type          WarningType `json:"warning_type"`
	Reason        string      `json:"reason"`
	AutoGenerated bool        `json:"auto_generated"`
	IssuedBy      *uuid.UUID  `json:"issued_by,omitempty"`
	IssuedAt      time.Time   `json:"issued_at"`
}
