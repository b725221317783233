package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/email"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
	"github.com/clinicore/clinicore/internal/ws"
)

type publishRecord struct {
	group   string
	event   string
	payload interface{}
}

type recordingPublisher struct {
	mu      sync.Mutex
	records []publishRecord
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, group, event string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.records = append(p.records, publishRecord{group: group, event: event, payload: payload})
	return nil
}

type recordingSender struct {
	messages []email.Message
	err      error
}

func (s *recordingSender) Send(ctx context.Context, msg email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type failingStore struct {
	repository.NotificationMemory
}

func (s *failingStore) Create(ctx context.Context, n *model.Notification) error {
	return errors.New("storage down")
}

func newNotificationFixture() (*NotificationService, *repository.NotificationMemory, *recordingPublisher, *recordingSender) {
	store := repository.NewNotificationMemory()
	pub := &recordingPublisher{}
	sender := &recordingSender{}
	svc := NewNotificationService(store, pub, sender, logger.New("error", "json"))
	return svc, store, pub, sender
}

func TestNotifyStoresAndPushes(t *testing.T) {
	ctx := context.Background()
	svc, store, pub, sender := newNotificationFixture()

	recipient := &model.User{ID: "u1", Email: "ana@clinic.test", DisplayName: "Ana"}
	err := svc.Notify(ctx, NotifyInput{
		Recipient:       recipient,
		Type:            model.NotificationAppointment,
		Title:           model.NotificationAppointment.DisplayTitle(),
		Body:            "Your appointment was approved",
		RelatedEntity:   "appointment",
		RelatedEntityID: "a1",
	})
	require.NoError(t, err)

	list, err := store.ListSince(ctx, "u1", time.Time{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	stored := list[0]
	assert.Equal(t, model.NotificationAppointment, stored.Type)
	assert.Equal(t, "Appointment update", stored.Title)
	assert.False(t, stored.IsRead)
	require.NotNil(t, stored.RelatedEntity)
	assert.Equal(t, "appointment", *stored.RelatedEntity)
	require.NotNil(t, stored.RelatedEntityID)
	assert.Equal(t, "a1", *stored.RelatedEntityID)

	require.Len(t, pub.records, 1)
	assert.Equal(t, ws.UserGroup("u1"), pub.records[0].group)
	assert.Equal(t, ws.EventNotificationNew, pub.records[0].event)
	pushed, ok := pub.records[0].payload.(*model.Notification)
	require.True(t, ok)
	assert.Equal(t, stored.ID, pushed.ID)

	// No email was requested
	assert.Empty(t, sender.messages)
}

func TestNotifyStoreFailureIsReturned(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewNotificationService(&failingStore{}, pub, nil, logger.New("error", "json"))

	err := svc.Notify(context.Background(), NotifyInput{
		Recipient: &model.User{ID: "u1"},
		Type:      model.NotificationInfo,
		Title:     "Information",
		Body:      "body",
	})
	require.Error(t, err)
	assert.Empty(t, pub.records)
}

func TestNotifyPushFailureIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	svc, store, pub, _ := newNotificationFixture()
	pub.err = errors.New("no clients")

	err := svc.Notify(ctx, NotifyInput{
		Recipient: &model.User{ID: "u1"},
		Type:      model.NotificationInfo,
		Title:     "Information",
		Body:      "body",
	})
	require.NoError(t, err)

	// Durable record exists even though the push failed
	count, err := store.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotifySendsEmailWhenRequested(t *testing.T) {
	svc, _, _, sender := newNotificationFixture()

	err := svc.Notify(context.Background(), NotifyInput{
		Recipient: &model.User{ID: "u1", Email: "ana@clinic.test"},
		Type:      model.NotificationDocument,
		Title:     "Document update",
		Body:      "Your document was validated",
		SendEmail: true,
	})
	require.NoError(t, err)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "ana@clinic.test", sender.messages[0].To)
	assert.Equal(t, "Document update", sender.messages[0].Subject)
}

func TestNotifyEmailFailureIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	svc, store, _, sender := newNotificationFixture()
	sender.err = errors.New("smtp down")

	err := svc.Notify(ctx, NotifyInput{
		Recipient: &model.User{ID: "u1", Email: "ana@clinic.test"},
		Type:      model.NotificationInfo,
		Title:     "Information",
		Body:      "body",
		SendEmail: true,
	})
	require.NoError(t, err)

	count, err := store.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkAllReadPushesClear(t *testing.T) {
	ctx := context.Background()
	svc, store, pub, _ := newNotificationFixture()

	require.NoError(t, store.Create(ctx, &model.Notification{
		ID:        "n1",
		UserID:    "u1",
		Type:      model.NotificationInfo,
		CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, svc.MarkAllRead(ctx, "u1"))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.Len(t, pub.records, 1)
	assert.Equal(t, ws.UserGroup("u1"), pub.records[0].group)
	assert.Equal(t, ws.EventNotificationCleared, pub.records[0].event)

	// Idempotent: a second call still succeeds
	require.NoError(t, svc.MarkAllRead(ctx, "u1"))
}

func TestListRecentOrdering(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newNotificationFixture()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, store.Create(ctx, &model.Notification{
			ID:        id,
			UserID:    "u1",
			Type:      model.NotificationInfo,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := svc.ListRecent(ctx, "u1", base.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n3", list[0].ID)
	assert.Equal(t, "n2", list[1].ID)
}
