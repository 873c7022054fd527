package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
)

// EventRepository defines the interface for performance event data
// access. Events are append-only.
type EventRepository interface {
	Create(ctx context.Context, event *models.PerformanceEvent) error
	ListByStaff(ctx context.Context, staffID uuid.UUID, limit int) ([]*models.PerformanceEvent, error)
}

type eventRepository struct {
	db database.Querier
}

// NewEventRepository creates a new performance event repository.
func NewEventRepository(db database.Querier) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.PerformanceEvent) error {
	q := database.QuerierFrom(ctx, r.db)

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()

	query := `
		INSERT INTO performance_events (id, staff_id, event_type, description, data, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := q.Exec(ctx, query,
		event.ID, event.StaffID, event.Type, event.Description,
		event.Data, event.CreatedBy, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create performance event: %w", err)
	}

	return nil
}

func (r *eventRepository) ListByStaff(ctx context.Context, staffID uuid.UUID, limit int) ([]*models.PerformanceEvent, error) {
	q := database.QuerierFrom(ctx, r.db)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, staff_id, event_type, description, data, created_by, created_at
		FROM performance_events
		WHERE staff_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := q.Query(ctx, query, staffID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance events: %w", err)
	}
	defer rows.Close()

	var events []*models.PerformanceEvent
	for rows.Next() {
		var event models.PerformanceEvent
		err := rows.Scan(&event.ID, &event.StaffID, &event.Type, &event.Description,
			&event.Data, &event.CreatedBy, &event.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating performance events: %w", err)
	}

	return events, nil
}

var _ EventRepository = (*eventRepository)(nil)
