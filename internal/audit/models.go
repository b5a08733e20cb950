package audit

import "time"

// Event is an immutable, append-only audit record of an authentication
// lifecycle action.
//
// Invariants:
// - Events are never updated or deleted.
// - tenant_id is required for tenancy isolation (empty only when login could
//   not resolve a tenant at all).
// - Audit is best-effort: authentication flows must not fail on audit errors.

type Event struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`

	Type EventType `json:"type" db:"type"`

	// ActorEmail is the email presented at login, or the authenticated
	// principal's email for refresh/logout.
	ActorEmail string `json:"actor_email,omitempty" db:"actor_email"`
	ActorRole  string `json:"actor_role,omitempty" db:"actor_role"`

	// Outcome distinguishes internally what clients only ever see as a
	// generic failure.
	Outcome Outcome `json:"outcome" db:"outcome"`

	DeviceInfo string `json:"device_info,omitempty" db:"device_info"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLogin         EventType = "login"
	EventTypeRefresh       EventType = "token_refresh"
	EventTypeLogoutSession EventType = "logout_session"
	EventTypeLogoutAll     EventType = "logout_all"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeDenied  Outcome = "denied"
)
