package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It MUST be append-only; no Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records authentication lifecycle events.
//
// Audit is internal-only; records are never exposed to tenant users.
// Callers treat audit logging as best-effort and log (not propagate)
// failures.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" || e.Outcome == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogLogin records a login attempt, successful or not.
func (s *Service) LogLogin(ctx context.Context, tenantID, email, role, deviceInfo string, outcome Outcome, message string) error {
	return s.Append(ctx, Event{
		TenantID:   tenantID,
		Type:       EventTypeLogin,
		ActorEmail: email,
		ActorRole:  role,
		Outcome:    outcome,
		DeviceInfo: deviceInfo,
		Message:    message,
	})
}

// LogSession records refresh and logout actions.
func (s *Service) LogSession(ctx context.Context, t EventType, tenantID, email string, outcome Outcome, message string) error {
	return s.Append(ctx, Event{
		TenantID:   tenantID,
		Type:       t,
		ActorEmail: email,
		Outcome:    outcome,
		Message:    message,
	})
}
