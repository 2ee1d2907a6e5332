package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wms-platform/users-service/internal/core/domain"
	"github.com/wms-platform/users-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists lifecycle events.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event. Called from dispatcher workers.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		s.log.Error().Err(err).
			Str("action", event.Action).
			Str("user_id", event.Subject).
			Msg("audit event persistence failed")
		return err
	}
	return nil
}
