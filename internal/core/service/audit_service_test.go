package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wms-platform/users-service/internal/core/domain"
)

type stubAuditRepo struct {
	inserted []domain.AuthEvent
	err      error
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, *event)
	return nil
}

func TestAuditService_Process(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	event := domain.AuthEvent{
		Action:    domain.ActionSignIn,
		Subject:   "user_1",
		Email:     "ann@example.com",
		Timestamp: time.Now().UTC(),
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Action != domain.ActionSignIn {
		t.Fatalf("event not persisted: %+v", repo.inserted)
	}
}

func TestAuditService_Process_InsertFailure(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("insert failed")}
	svc := NewAuditService(repo, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.AuthEvent{Action: domain.ActionSignUp}); err == nil {
		t.Fatalf("expected error to propagate to the dispatcher")
	}
}
