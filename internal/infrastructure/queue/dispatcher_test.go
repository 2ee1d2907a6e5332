package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wms-platform/users-service/internal/core/domain"
)

type captureService struct {
	events chan domain.AuthEvent
}

func (s *captureService) Process(_ context.Context, event domain.AuthEvent) error {
	s.events <- event
	return nil
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	svc := &captureService{events: make(chan domain.AuthEvent, 8)}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	sent := domain.AuthEvent{
		Action:    domain.ActionSignIn,
		Subject:   "user_1",
		Email:     "ann@example.com",
		Timestamp: time.Now().UTC(),
	}
	d.Record(sent)

	select {
	case got := <-svc.events:
		if got.Action != sent.Action || got.Subject != sent.Subject {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestDispatcher_SameSubjectSameWorker(t *testing.T) {
	d := NewDispatcher(4, &captureService{events: make(chan domain.AuthEvent, 1)}, zerolog.Nop())

	first := d.shardIndex("user_42")
	for i := 0; i < 10; i++ {
		if d.shardIndex("user_42") != first {
			t.Fatalf("shard index must be deterministic per subject")
		}
	}
}

func TestDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	// Workers never started: channels fill up and Record must not block.
	svc := &captureService{events: make(chan domain.AuthEvent)}
	d := NewDispatcher(1, svc, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+16; i++ {
			d.Record(domain.AuthEvent{Action: domain.ActionRefresh, Subject: "user_1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}
}
