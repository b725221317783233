package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/database"
	"github.com/clinicore/clinicore/internal/model"
)

// AuditRepository handles durable audit log persistence
type AuditRepository struct {
	db *database.Postgres
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *database.Postgres) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateSignIn inserts a sign-in audit log entry
func (r *AuditRepository) CreateSignIn(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, audit_type, user_id, user_name, remote_ip, scheme, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.AuditType,
		log.UserID,
		log.UserName,
		log.RemoteIP,
		log.Scheme,
		log.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListSignIns returns sign-in audit entries since the cutoff, newest first
func (r *AuditRepository) ListSignIns(ctx context.Context, since time.Time, limit int) ([]*model.AuditLog, error) {
	query := `
		SELECT id, audit_type, user_id, user_name, remote_ip, scheme, occurred_at
		FROM audit_logs
		WHERE audit_type = $1 AND occurred_at >= $2
		ORDER BY occurred_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, model.AuditTypeSignIn, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*model.AuditLog
	for rows.Next() {
		var entry model.AuditLog
		err := rows.Scan(
			&entry.ID,
			&entry.AuditType,
			&entry.UserID,
			&entry.UserName,
			&entry.RemoteIP,
			&entry.Scheme,
			&entry.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, nil
}
