package model

import "time"

// Message is an internal message between two users (doctor, assistant, patient)
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sentAt"`
	IsRead      bool      `json:"isRead"`
}
