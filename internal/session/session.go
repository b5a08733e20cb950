package session

import (
	"context"
	"errors"
	"time"

	"pos-platform/internal/principal"
)

// Session is one registered refresh token plus metadata. The JSON shape is
// the persisted document format; changing a tag is a data migration.
type Session struct {
	Token      string    `json:"token"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
	DeviceInfo string    `json:"deviceInfo"`
}

// ErrVersionConflict is returned by Store.Save when the stored version no
// longer matches the expected one. The Registry retries on it.
var ErrVersionConflict = errors.New("session: version conflict")

// Store persists the per-principal session list with optimistic concurrency.
// Load returns the current list and a version; Save succeeds only if the
// stored version still equals expectedVersion. A principal with no stored
// list loads as (nil, 0, nil).
type Store interface {
	Load(ctx context.Context, ref principal.Ref) ([]Session, int64, error)
	Save(ctx context.Context, ref principal.Ref, sessions []Session, expectedVersion int64) error
}
