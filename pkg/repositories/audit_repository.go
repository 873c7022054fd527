package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
)

// AuditRepository defines the interface for audit log data access.
// The log is append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

type auditRepository struct {
	db database.Querier
}

// NewAuditRepository creates a new audit log repository.
func NewAuditRepository(db database.Querier) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	q := database.QuerierFrom(ctx, r.db)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := q.Exec(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType,
		entry.EntityID, entry.Details, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	q := database.QuerierFrom(ctx, r.db)

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, actor_id, action, entity_type, entity_id, details, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.EntityType,
			&entry.EntityID, &entry.Details, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}

	return entries, nil
}

var _ AuditRepository = (*auditRepository)(nil)
