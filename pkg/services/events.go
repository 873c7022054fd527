package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// EventService reads the performance history feed.
type EventService interface {
	ListByStaff(ctx context.Context, staffID uuid.UUID, limit int) ([]*models.PerformanceEvent, error)
}

type eventService struct {
	events repositories.EventRepository
}

// NewEventService creates a new performance event service.
func NewEventService(events repositories.EventRepository) EventService {
	return &eventService{events: events}
}

func (s *eventService) ListByStaff(ctx context.Context, staffID uuid.UUID, limit int) ([]*models.PerformanceEvent, error) {
	return s.events.ListByStaff(ctx, staffID, limit)
}

var _ EventService = (*eventService)(nil)
