package session

import (
	"context"
	"sync"

	"pos-platform/internal/principal"
)

type memoryEntry struct {
	sessions []Session
	version  int64
}

// MemoryStore keeps session lists in process memory. Used by tests and
// local development.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[principal.Ref]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[principal.Ref]memoryEntry)}
}

func (s *MemoryStore) Load(_ context.Context, ref principal.Ref) ([]Session, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[ref]
	if !ok {
		return nil, 0, nil
	}
	return append([]Session(nil), e.sessions...), e.version, nil
}

func (s *MemoryStore) Save(_ context.Context, ref principal.Ref, sessions []Session, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.entries[ref]
	if current.version != expectedVersion {
		return ErrVersionConflict
	}
	s.entries[ref] = memoryEntry{
		sessions: append([]Session(nil), sessions...),
		version:  current.version + 1,
	}
	return nil
}
