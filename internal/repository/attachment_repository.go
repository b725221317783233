package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/model"
)

// AttachmentRepository handles medical attachment review state
type AttachmentRepository struct {
	db *database.Postgres
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *database.Postgres) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// GetByID retrieves an attachment by ID
func (r *AttachmentRepository) GetByID(ctx context.Context, id string) (*model.Attachment, error) {
	query := `
		SELECT id, patient_id, file_name, status, uploaded_at, reviewed_at, reviewed_by, review_note
		FROM attachments
		WHERE id = $1
	`
	var a model.Attachment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.PatientID,
		&a.FileName,
		&a.Status,
		&a.UploadedAt,
		&a.ReviewedAt,
		&a.ReviewedBy,
		&a.ReviewNote,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &a, nil
}

// SetReviewStatus moves a pending attachment to validated or rejected.
// Returns ErrNotFound when the attachment does not exist or was already
// reviewed, so a second review cannot overwrite the first.
func (r *AttachmentRepository) SetReviewStatus(ctx context.Context, id, status, reviewerID string, note *string) error {
	query := `
		UPDATE attachments
		SET status = $1, reviewed_at = $2, reviewed_by = $3, review_note = $4
		WHERE id = $5 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), reviewerID, note, id, model.AttachmentPending)
	if err != nil {
		return fmt.Errorf("failed to update attachment status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
