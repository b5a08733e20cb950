package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-platform/internal/principal"
)

// DefaultMaxSessions applies when a principal carries no explicit limit.
const DefaultMaxSessions = 3

// Writes are read-modify-write over the stored list; on a version conflict
// the registry re-reads and reapplies. The bound keeps a livelocked store
// from stalling a login forever.
const saveAttempts = 3

// Registry maintains the bounded, insertion-ordered session list per
// principal. The oldest session (index 0) is evicted when the list is at
// capacity: a FIFO, not an LRU.
type Registry struct {
	store Store
	now   func() time.Time
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (r *Registry) WithNow(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Register appends a new session for p, evicting from the front until the
// list fits the principal's limit.
func (r *Registry) Register(ctx context.Context, p principal.Principal, s Session) error {
	limit := p.SessionLimit()
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	return r.mutate(ctx, p.Ref(), func(sessions []Session) ([]Session, error) {
		for len(sessions) >= limit {
			sessions = sessions[1:]
		}
		return append(sessions, s), nil
	})
}

// Find returns the session matching token, or nil if none is registered.
func (r *Registry) Find(ctx context.Context, ref principal.Ref, token string) (*Session, error) {
	sessions, _, err := r.store.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Token == token {
			out := sessions[i]
			return &out, nil
		}
	}
	return nil, nil
}

// Touch bumps lastUsed on the session matching token. Missing tokens are a
// no-op; the caller has already decided the token is valid.
func (r *Registry) Touch(ctx context.Context, ref principal.Ref, token string) error {
	return r.mutate(ctx, ref, func(sessions []Session) ([]Session, error) {
		for i := range sessions {
			if sessions[i].Token == token {
				sessions[i].LastUsed = r.now()
			}
		}
		return sessions, nil
	})
}

// Rotate replaces oldToken with newToken in place, preserving createdAt and
// updating lastUsed. It reports whether a matching session existed.
func (r *Registry) Rotate(ctx context.Context, ref principal.Ref, oldToken, newToken string) (bool, error) {
	rotated := false
	err := r.mutate(ctx, ref, func(sessions []Session) ([]Session, error) {
		rotated = false
		for i := range sessions {
			if sessions[i].Token == oldToken {
				sessions[i].Token = newToken
				sessions[i].LastUsed = r.now()
				rotated = true
			}
		}
		return sessions, nil
	})
	if err != nil {
		return false, err
	}
	return rotated, nil
}

// Remove deletes the session matching token. Other sessions are untouched.
func (r *Registry) Remove(ctx context.Context, ref principal.Ref, token string) error {
	return r.mutate(ctx, ref, func(sessions []Session) ([]Session, error) {
		out := sessions[:0]
		for _, s := range sessions {
			if s.Token != token {
				out = append(out, s)
			}
		}
		return out, nil
	})
}

// Clear wipes every session for ref (logout everywhere).
func (r *Registry) Clear(ctx context.Context, ref principal.Ref) error {
	return r.mutate(ctx, ref, func([]Session) ([]Session, error) {
		return nil, nil
	})
}

func (r *Registry) mutate(ctx context.Context, ref principal.Ref, apply func([]Session) ([]Session, error)) error {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		sessions, version, err := r.store.Load(ctx, ref)
		if err != nil {
			return err
		}
		next, err := apply(append([]Session(nil), sessions...))
		if err != nil {
			return err
		}
		if err := r.store.Save(ctx, ref, next, version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("session: mutation retries exhausted: %w", lastErr)
}
