// Package services implements the business rules of practice-engine:
// weekly schedule generation, leave decisions, KPI scoring and the
// automatic warning rule. Services own transactions; repositories
// joined through the context do the data access.
package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// AuditService records who did what. Logging is best-effort: a failed
// audit write never fails the operation it describes.
type AuditService interface {
	Log(ctx context.Context, action, entityType string, entityID *uuid.UUID, details map[string]any)
	List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

type auditService struct {
	repo   repositories.AuditRepository
	logger *zap.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(repo repositories.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) Log(ctx context.Context, action, entityType string, entityID *uuid.UUID, details map[string]any) {
	entry := &models.AuditLogEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}

	// A nil actor means the system itself acted.
	if actor, ok := models.GetActor(ctx); ok {
		id := actor.ID
		entry.ActorID = &id
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log entry",
			zap.String("action", action),
			zap.Error(err))
	}
}

func (s *auditService) List(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	return s.repo.List(ctx, limit)
}

var _ AuditService = (*auditService)(nil)
