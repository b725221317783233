package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/model"
)

// NotificationMemory is an in-process notification store with the same
// contract as NotificationRepository. It backs tests and single-node
// development without Postgres.
type NotificationMemory struct {
	mu            sync.RWMutex
	notifications map[string]*model.Notification
}

// NewNotificationMemory creates an empty NotificationMemory
func NewNotificationMemory() *NotificationMemory {
	return &NotificationMemory{notifications: make(map[string]*model.Notification)}
}

// Create inserts a new notification
func (m *NotificationMemory) Create(ctx context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.notifications[n.ID]; exists {
		return ErrDuplicate
	}
	stored := *n
	m.notifications[n.ID] = &stored
	return nil
}

// ListSince returns the user's notifications created at or after the
// cutoff, newest first
func (m *NotificationMemory) ListSince(ctx context.Context, userID string, since time.Time) ([]*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && !n.CreatedAt.Before(since) {
			copied := *n
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// CountUnread returns the number of unread notifications for the user
func (m *NotificationMemory) CountUnread(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead marks a single notification read; already-read is a no-op
func (m *NotificationMemory) MarkRead(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

// MarkAllRead marks every unread notification for the user read
func (m *NotificationMemory) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}
