package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/model"
)

// AppointmentRepository handles appointment persistence
type AppointmentRepository struct {
	db *database.Postgres
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(db *database.Postgres) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// GetByID retrieves an appointment by ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, scheduled_at, reason, status, created_at
		FROM appointments
		WHERE id = $1
	`
	var a model.Appointment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.ScheduledAt,
		&a.Reason,
		&a.Status,
		&a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

// SetStatus moves a pending appointment to approved or rejected
func (r *AppointmentRepository) SetStatus(ctx context.Context, id, status string) error {
	query := `UPDATE appointments SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, status, id, model.AppointmentPending)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
