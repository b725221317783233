package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
	"github.com/google/uuid"
)

// MessageService handles internal messaging between staff and patients
type MessageService struct {
	messages *repository.MessageRepository
	users    *repository.UserRepository
	notifier *NotificationService
	log      *logger.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(messages *repository.MessageRepository, users *repository.UserRepository, notifier *NotificationService, log *logger.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		notifier: notifier,
		log:      log.WithComponent("messages"),
	}
}

// Send delivers an internal message and notifies the recipient's inbox.
// The message itself is pull-only; recipients see it on next inbox load.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, subject, body string) (*model.Message, error) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	msg := &model.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		SentAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	err = s.notifier.Notify(ctx, NotifyInput{
		Recipient:       recipient,
		Type:            model.NotificationMessage,
		Title:           model.NotificationMessage.DisplayTitle(),
		Body:            subject,
		RelatedEntity:   "message",
		RelatedEntityID: msg.ID,
	})
	if err != nil {
		// The message is already delivered; a missing inbox entry is
		// survivable and must not fail the send.
		s.log.Warn().Err(err).Str("message_id", msg.ID).Msg("failed to notify message recipient")
	}

	return msg, nil
}

// Inbox returns messages received by the user, newest first
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]*model.Message, error) {
	return s.messages.ListInbox(ctx, userID)
}

// MarkRead marks a received message read
func (s *MessageService) MarkRead(ctx context.Context, userID, id string) error {
	return s.messages.MarkRead(ctx, userID, id)
}
