package repository

import (
	"context"
	"fmt"

	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/model"
)

// MessageRepository handles internal message persistence
type MessageRepository struct {
	db *database.Postgres
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *database.Postgres) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, subject, body, sent_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.SenderID,
		m.RecipientID,
		m.Subject,
		m.Body,
		m.SentAt,
		m.IsRead,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListInbox returns messages received by the user, newest first
func (r *MessageRepository) ListInbox(ctx context.Context, userID string) ([]*model.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, subject, body, sent_at, is_read
		FROM messages
		WHERE recipient_id = $1
		ORDER BY sent_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.RecipientID,
			&m.Subject,
			&m.Body,
			&m.SentAt,
			&m.IsRead,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkRead marks a received message read
func (r *MessageRepository) MarkRead(ctx context.Context, userID, id string) error {
	query := `UPDATE messages SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
