package service

import (
	"context"
	"fmt"

	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
)

// AppointmentService decides pending appointment requests
type AppointmentService struct {
	appointments *repository.AppointmentRepository
	users        *repository.UserRepository
	notifier     *NotificationService
	log          *logger.Logger
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(appointments *repository.AppointmentRepository, users *repository.UserRepository, notifier *NotificationService, log *logger.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		log:          log.WithComponent("appointments"),
	}
}

// Approve approves a pending appointment and notifies the patient
func (s *AppointmentService) Approve(ctx context.Context, id string) error {
	return s.decide(ctx, id, model.AppointmentApproved)
}

// Reject rejects a pending appointment and notifies the patient
func (s *AppointmentService) Reject(ctx context.Context, id string) error {
	return s.decide(ctx, id, model.AppointmentRejected)
}

func (s *AppointmentService) decide(ctx context.Context, id, status string) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.appointments.SetStatus(ctx, id, status); err != nil {
		return err
	}

	patient, err := s.users.GetByID(ctx, appointment.PatientID)
	if err != nil {
		s.log.Warn().Err(err).Str("appointment_id", id).Msg("failed to resolve patient for appointment notification")
		return nil
	}

	body := fmt.Sprintf("Your appointment on %s was %s.",
		appointment.ScheduledAt.Format("02 Jan 2006 15:04"), status)

	err = s.notifier.Notify(ctx, NotifyInput{
		Recipient:       patient,
		Type:            model.NotificationAppointment,
		Title:           model.NotificationAppointment.DisplayTitle(),
		Body:            body,
		RelatedEntity:   "appointment",
		RelatedEntityID: id,
		SendEmail:       true,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("appointment_id", id).Msg("failed to notify patient of appointment decision")
	}
	return nil
}
