package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/email"
	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/ws"
	"github.com/google/uuid"
)

// NotificationStore is the persistence contract the notification service
// depends on. Satisfied by repository.NotificationRepository and
// repository.NotificationMemory.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListSince(ctx context.Context, userID string, since time.Time) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// NotifyInput describes one notification to deliver
type NotifyInput struct {
	Recipient       *model.User
	Type            model.NotificationType
	Title           string
	Body            string
	RelatedEntity   string
	RelatedEntityID string
	SendEmail       bool
}

// NotificationService owns the per-user notification inbox. Inbox entries
// are durable and pulled by their owner; the only pushes are the small
// "something changed" nudges to the recipient's own live connections.
type NotificationService struct {
	store     NotificationStore
	publisher ws.Publisher
	sender    email.Sender
	log       *logger.Logger
}

// NewNotificationService creates a new NotificationService. sender may be
// nil when email delivery is disabled.
func NewNotificationService(store NotificationStore, publisher ws.Publisher, sender email.Sender, log *logger.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		publisher: publisher,
		sender:    sender,
		log:       log.WithComponent("notifications"),
	}
}

// Notify persists a new unread notification for the recipient. A storage
// failure is returned to the caller; push and email failures are logged
// and absorbed.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) error {
	n := &model.Notification{
		ID:        uuid.New().String(),
		UserID:    in.Recipient.ID,
		Type:      in.Type,
		Title:     in.Title,
		Body:      in.Body,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	if in.RelatedEntity != "" {
		re := in.RelatedEntity
		n.RelatedEntity = &re
	}
	if in.RelatedEntityID != "" {
		rid := in.RelatedEntityID
		n.RelatedEntityID = &rid
	}

	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if err := s.publisher.Publish(ctx, ws.UserGroup(n.UserID), ws.EventNotificationNew, n); err != nil {
		s.log.Warn().Err(err).Str("user_id", n.UserID).Msg("failed to push notification")
	}

	if in.SendEmail && s.sender != nil {
		msg := email.Message{
			To:       in.Recipient.Email,
			Subject:  in.Title,
			HTMLBody: in.Body,
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			s.log.Warn().Err(err).Str("user_id", n.UserID).Msg("failed to email notification")
		}
	}

	return nil
}

// ListRecent returns the user's notifications created at or after the
// cutoff, newest first
func (s *NotificationService) ListRecent(ctx context.Context, userID string, since time.Time) ([]*model.Notification, error) {
	return s.store.ListSince(ctx, userID, since)
}

// UnreadCount returns the number of unread notifications for the user
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead marks one notification read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.MarkRead(ctx, userID, id)
}

// MarkAllRead marks every unread notification for the user read and nudges
// the user's live connections to clear their badge
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, ws.UserGroup(userID), ws.EventNotificationCleared, nil); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to push notification clear")
	}
	return nil
}
