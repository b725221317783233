package email

import "context"

// Message is an outbound email
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers email notifications
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
