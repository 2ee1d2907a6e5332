package ports

import (
	"context"

	"github.com/wms-platform/users-service/internal/core/domain"
)

// AuditRecorder accepts lifecycle events for asynchronous persistence.
// Recording is fire-and-forget: lifecycle operations never fail because an
// event could not be delivered.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditService processes a single audit event (called by dispatcher workers).
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
