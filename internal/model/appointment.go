package model

import "time"

// Appointment status
const (
	AppointmentPending  = "pending"
	AppointmentApproved = "approved"
	AppointmentRejected = "rejected"
)

// Appointment is a patient's appointment request with a doctor
type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	DoctorID    string    `json:"doctorId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
