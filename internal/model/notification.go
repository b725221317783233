package model

import "time"

// NotificationType classifies a notification for display purposes
type NotificationType string

// Notification type constants
const (
	NotificationInfo        NotificationType = "info"
	NotificationAppointment NotificationType = "appointment"
	NotificationDocument    NotificationType = "document"
	NotificationMessage     NotificationType = "message"
	NotificationSystem      NotificationType = "system"
	NotificationAttachment  NotificationType = "attachment"
)

// displayTitles maps each notification type to its inbox heading.
// Keep this table in sync with the constants above; DisplayTitle falls
// back to the info heading for unknown values.
var displayTitles = map[NotificationType]string{
	NotificationInfo:        "Information",
	NotificationAppointment: "Appointment update",
	NotificationDocument:    "Document update",
	NotificationMessage:     "New message",
	NotificationSystem:      "System notice",
	NotificationAttachment:  "Attachment review",
}

// DisplayTitle returns the inbox heading for the notification type
func (t NotificationType) DisplayTitle() string {
	if title, ok := displayTitles[t]; ok {
		return title
	}
	return displayTitles[NotificationInfo]
}

// Valid reports whether the type is one of the known notification types
func (t NotificationType) Valid() bool {
	_, ok := displayTitles[t]
	return ok
}

// Notification is a durable per-user inbox entry. Append-only except for
// the read flag, which transitions false to true exactly once.
type Notification struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Type            NotificationType `json:"type"`
	Title           string           `json:"title"`
	Body            string           `json:"body"`
	IsRead          bool             `json:"isRead"`
	CreatedAt       time.Time        `json:"createdAt"`
	RelatedEntity   *string          `json:"relatedEntity,omitempty"`
	RelatedEntityID *string          `json:"relatedEntityId,omitempty"`
}
