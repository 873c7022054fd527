package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
)

// WarningRepository defines the interface for warning data access.
// Warnings are append-only.
type WarningRepository interface {
	Create(ctx context.Context, warning *models.Warning) error
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.Warning, error)
	List(ctx context.Context) ([]*models.Warning, error)
}

type warningRepository struct {
	db database.Querier
}

// NewWarningRepository creates a new warning repository.
func NewWarningRepository(db database.Querier) WarningRepository {
	return &warningRepository{db: db}
}

func (r *warningRepository) Create(ctx context.Context, warning *models.Warning) error {
	q := database.QuerierFrom(ctx, r.db)

	if warning.ID == uuid.Nil {
		warning.ID = uuid.New()
	}
	warning.IssuedAt = time.Now()

	query := `
		INSERT INTO warnings (id, staff_id, warning_type, reason, auto_generated, issued_by, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := q.Exec(ctx, query,
		warning.ID, warning.StaffID, warning.Type, warning.Reason,
		warning.AutoGenerated, warning.IssuedBy, warning.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to create warning: %w", err)
	}

	return nil
}

func (r *warningRepository) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*models.Warning, error) {
	query := `
		SELECT id, staff_id, warning_type, reason, auto_generated, issued_by, issued_at
		FROM warnings
		WHERE staff_id = $1
		ORDER BY issued_at DESC`
	return r.list(ctx, query, staffID)
}

func (r *warningRepository) List(ctx context.Context) ([]*models.Warning, error) {
	query := `
		SELECT id, staff_id, warning_type, reason, auto_generated, issued_by, issued_at
		FROM warnings
		ORDER BY issued_at DESC`
	return r.list(ctx, query)
}

func (r *warningRepository) list(ctx context.Context, query string, args ...any) ([]*models.Warning, error) {
	q := database.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	defer rows.Close()

	var warnings []*models.Warning
	for rows.Next() {
		var warning models.Warning
		err := rows.Scan(&warning.ID, &warning.StaffID, &warning.Type, &warning.Reason,
			&warning.AutoGenerated, &warning.IssuedBy, &warning.IssuedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, &warning)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warnings: %w", err)
	}

	return warnings, nil
}

var _ WarningRepository = (*warningRepository)(nil)
