package service

import (
	"context"
	"fmt"

	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
)

// AttachmentService reviews patient-uploaded medical documents
type AttachmentService struct {
	attachments *repository.AttachmentRepository
	users       *repository.UserRepository
	notifier    *NotificationService
	log         *logger.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(attachments *repository.AttachmentRepository, users *repository.UserRepository, notifier *NotificationService, log *logger.Logger) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		users:       users,
		notifier:    notifier,
		log:         log.WithComponent("attachments"),
	}
}

// Validate marks a pending attachment validated and notifies the patient
func (s *AttachmentService) Validate(ctx context.Context, id, reviewerID string, note string) error {
	return s.review(ctx, id, reviewerID, note, model.AttachmentValidated)
}

// Reject marks a pending attachment rejected and notifies the patient
func (s *AttachmentService) Reject(ctx context.Context, id, reviewerID string, note string) error {
	return s.review(ctx, id, reviewerID, note, model.AttachmentRejected)
}

func (s *AttachmentService) review(ctx context.Context, id, reviewerID, note, status string) error {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}
	if err := s.attachments.SetReviewStatus(ctx, id, status, reviewerID, notePtr); err != nil {
		return err
	}

	patient, err := s.users.GetByID(ctx, attachment.PatientID)
	if err != nil {
		s.log.Warn().Err(err).Str("attachment_id", id).Msg("failed to resolve patient for review notification")
		return nil
	}

	body := fmt.Sprintf("Your document %q was %s.", attachment.FileName, status)
	if note != "" {
		body = fmt.Sprintf("%s Reviewer note: %s", body, note)
	}

	err = s.notifier.Notify(ctx, NotifyInput{
		Recipient:       patient,
		Type:            model.NotificationAttachment,
		Title:           model.NotificationAttachment.DisplayTitle(),
		Body:            body,
		RelatedEntity:   "attachment",
		RelatedEntityID: id,
		SendEmail:       true,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("attachment_id", id).Msg("failed to notify patient of review")
	}
	return nil
}
