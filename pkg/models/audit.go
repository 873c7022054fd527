package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogEntry records who did what to which record. Entries are
// append-only; nothing in the system reads them back except the
// manager-facing listing.
type AuditLogEntry struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID     `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
