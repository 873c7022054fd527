package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/models"
	"github.com/smilecrest/practice-engine/pkg/repositories"
)

// NotificationService delivers in-app notifications.
type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, category string) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, title, message, category string) error {
	n := &models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
	}
	return s.repo.Create(ctx, n)
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

var _ NotificationService = (*notificationService)(nil)
