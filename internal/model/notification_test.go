package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationTypeDisplayTitle(t *testing.T) {
	tests := []struct {
		typ   NotificationType
		title string
	}{
		{NotificationInfo, "Information"},
		{NotificationAppointment, "Appointment update"},
		{NotificationDocument, "Document update"},
		{NotificationMessage, "New message"},
		{NotificationSystem, "System notice"},
		{NotificationAttachment, "Attachment review"},
		{NotificationType("bogus"), "Information"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.title, tt.typ.DisplayTitle(), "type %q", tt.typ)
	}
}

func TestNotificationTypeValid(t *testing.T) {
	assert.True(t, NotificationAppointment.Valid())
	assert.False(t, NotificationType("bogus").Valid())
	assert.False(t, NotificationType("").Valid())
}
