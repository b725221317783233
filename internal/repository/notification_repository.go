package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/model"
)

// NotificationRepository handles user notification persistence
type NotificationRepository struct {
	db *database.Postgres
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *database.Postgres) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, body, is_read,
		    created_at, related_entity, related_entity_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		string(n.Type),
		n.Title,
		n.Body,
		n.IsRead,
		n.CreatedAt,
		n.RelatedEntity,
		n.RelatedEntityID,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListSince returns the user's notifications created at or after the
// cutoff, newest first
func (r *NotificationRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, type, title, body, is_read, created_at,
		    related_entity, related_entity_id
		FROM notifications
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		var typ string
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&typ,
			&n.Title,
			&n.Body,
			&n.IsRead,
			&n.CreatedAt,
			&n.RelatedEntity,
			&n.RelatedEntityID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = model.NotificationType(typ)
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for the user
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a single notification read. Marking an already-read
// notification is a no-op; a notification owned by another user is not
// touched.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2 AND is_read = FALSE`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		// Either already read or not the caller's notification; confirm it exists
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)`
		if err := r.db.QueryRowContext(ctx, check, id, userID).Scan(&exists); err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

// MarkAllRead marks every unread notification for the user read in a
// single set-based update. Safe and idempotent with zero unread rows.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
