package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilecrest/practice-engine/pkg/apperrors"
	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/models"
)

// NotificationRepository defines the interface for notification data
// access.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error)
	// MarkRead flags a notification as read. The user scope stops one
	// staff member from clearing another's notifications.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationRepository struct {
	db database.Querier
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db database.Querier) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	q := database.QuerierFrom(ctx, r.db)

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()

	query := `
		INSERT INTO notifications (id, user_id, title, message, category, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)`

	_, err := q.Exec(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Category, n.Link, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error) {
	q := database.QuerierFrom(ctx, r.db)

	query := `
		SELECT id, user_id, title, message, category, link, read, created_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Category, &n.Link, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	q := database.QuerierFrom(ctx, r.db)

	result, err := q.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

var _ NotificationRepository = (*notificationRepository)(nil)
