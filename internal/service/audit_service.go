package service

import (
	"context"
	"time"

	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/clinicore/clinicore/internal/repository"
)

// AuditService exposes the durable audit trail to privileged observers
type AuditService struct {
	audits *repository.AuditRepository
	log    *logger.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(audits *repository.AuditRepository, log *logger.Logger) *AuditService {
	return &AuditService{
		audits: audits,
		log:    log.WithComponent("audit"),
	}
}

// RecentSignIns returns sign-in audit entries since the cutoff, newest first
func (s *AuditService) RecentSignIns(ctx context.Context, since time.Time, limit int) ([]*model.AuditLog, error) {
	return s.audits.ListSignIns(ctx, since, limit)
}
