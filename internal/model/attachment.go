package model

import "time"

// Attachment review status
const (
	AttachmentPending   = "pending"
	AttachmentValidated = "validated"
	AttachmentRejected  = "rejected"
)

// Attachment is a patient-uploaded medical document awaiting staff review.
// The file contents live in external storage; only review state is kept here.
type Attachment struct {
	ID         string     `json:"id"`
	PatientID  string     `json:"patientId"`
	FileName   string     `json:"fileName"`
	Status     string     `json:"status"`
	UploadedAt time.Time  `json:"uploadedAt"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy *string    `json:"reviewedBy,omitempty"`
	ReviewNote *string    `json:"reviewNote,omitempty"`
}
