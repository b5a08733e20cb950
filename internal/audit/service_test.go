package audit

import (
	"context"
	"testing"
	"time"
)

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	err := svc.Append(context.Background(), Event{
		TenantID: "tenant-1",
		Type:     EventTypeLogin,
		Outcome:  OutcomeSuccess,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	events := repo.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.ID == "" {
		t.Fatal("ID not assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not assigned")
	}
	if time.Since(e.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt %v not near now", e.CreatedAt)
	}
}

func TestAppendRejectsIncompleteEvents(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Outcome: OutcomeSuccess}); err != ErrInvalidEvent {
		t.Fatalf("missing type: err = %v, want ErrInvalidEvent", err)
	}
	if err := svc.Append(context.Background(), Event{Type: EventTypeLogin}); err != ErrInvalidEvent {
		t.Fatalf("missing outcome: err = %v, want ErrInvalidEvent", err)
	}
}

func TestLogLogin(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	err := svc.LogLogin(context.Background(), "tenant-1", "admin@techcorp.com", "ADMIN", "till-1", OutcomeDenied, "password mismatch")
	if err != nil {
		t.Fatalf("LogLogin: %v", err)
	}

	events := repo.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Type != EventTypeLogin || e.Outcome != OutcomeDenied {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.ActorEmail != "admin@techcorp.com" || e.DeviceInfo != "till-1" {
		t.Fatalf("unexpected event %+v", e)
	}
}
