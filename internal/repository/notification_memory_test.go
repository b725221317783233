package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/model"
)

func seedNotification(t *testing.T, store *NotificationMemory, id, userID string, createdAt time.Time) {
	t.Helper()
	err := store.Create(context.Background(), &model.Notification{
		ID:        id,
		UserID:    userID,
		Type:      model.NotificationInfo,
		Title:     "Information",
		Body:      "body",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestNotificationMemoryListSince(t *testing.T) {
	ctx := context.Background()
	store := NewNotificationMemory()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t1, t2, t3 := base, base.Add(time.Hour), base.Add(2*time.Hour)

	seedNotification(t, store, "n1", "u1", t1)
	seedNotification(t, store, "n2", "u1", t2)
	seedNotification(t, store, "n3", "u1", t3)
	seedNotification(t, store, "other", "u2", t3)

	// Cutoff is inclusive and results come back newest first
	list, err := store.ListSince(ctx, "u1", t2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n3", list[0].ID)
	assert.Equal(t, "n2", list[1].ID)

	list, err = store.ListSince(ctx, "u1", t3.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationMemoryCreateDuplicate(t *testing.T) {
	store := NewNotificationMemory()
	now := time.Now().UTC()

	seedNotification(t, store, "n1", "u1", now)
	err := store.Create(context.Background(), &model.Notification{ID: "n1", UserID: "u1", CreatedAt: now})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestNotificationMemoryMarkRead(t *testing.T) {
	ctx := context.Background()
	store := NewNotificationMemory()
	now := time.Now().UTC()

	seedNotification(t, store, "n1", "u1", now)

	require.NoError(t, store.MarkRead(ctx, "u1", "n1"))

	count, err := store.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Marking again is a no-op, not an error
	require.NoError(t, store.MarkRead(ctx, "u1", "n1"))

	// Another user's notification is invisible
	assert.ErrorIs(t, store.MarkRead(ctx, "u2", "n1"), ErrNotFound)
	assert.ErrorIs(t, store.MarkRead(ctx, "u1", "missing"), ErrNotFound)
}

func TestNotificationMemoryMarkAllRead(t *testing.T) {
	ctx := context.Background()
	store := NewNotificationMemory()
	now := time.Now().UTC()

	seedNotification(t, store, "n1", "u1", now)
	seedNotification(t, store, "n2", "u1", now.Add(time.Second))
	seedNotification(t, store, "n3", "u2", now)

	require.NoError(t, store.MarkAllRead(ctx, "u1"))

	count, err := store.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Other users are untouched
	count, err = store.CountUnread(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Idempotent with zero unread rows
	require.NoError(t, store.MarkAllRead(ctx, "u1"))
	require.NoError(t, store.MarkAllRead(ctx, "nobody"))
}
