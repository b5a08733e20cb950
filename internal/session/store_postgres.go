package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pos-platform/internal/principal"
)

// NOTE: This store assumes the following table exists:
//
//   principal_sessions (
//     principal_kind text NOT NULL,
//     principal_id   text NOT NULL,
//     sessions       jsonb NOT NULL DEFAULT '[]',
//     version        bigint NOT NULL DEFAULT 0,
//     updated_at     timestamptz NOT NULL,
//     PRIMARY KEY (principal_kind, principal_id)
//   )
//
// Optimistic concurrency: Save is a conditional UPDATE on the version
// column; zero rows affected means another writer won and the caller
// must re-read.

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, ref principal.Ref) ([]Session, int64, error) {
	const q = `
SELECT sessions, version
FROM principal_sessions
WHERE principal_kind = $1 AND principal_id = $2
`
	var raw []byte
	var version int64
	err := s.db.QueryRowContext(ctx, q, string(ref.Kind), ref.ID).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	var sessions []Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, 0, fmt.Errorf("session: decode stored list: %w", err)
	}
	return sessions, version, nil
}

func (s *PostgresStore) Save(ctx context.Context, ref principal.Ref, sessions []Session, expectedVersion int64) error {
	if sessions == nil {
		sessions = []Session{}
	}
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("session: encode list: %w", err)
	}

	if expectedVersion == 0 {
		// First write for this principal. ON CONFLICT DO NOTHING turns a
		// concurrent first write into a version conflict instead of an error.
		const q = `
INSERT INTO principal_sessions (principal_kind, principal_id, sessions, version, updated_at)
VALUES ($1, $2, $3::jsonb, 1, now())
ON CONFLICT (principal_kind, principal_id) DO NOTHING
`
		res, err := s.db.ExecContext(ctx, q, string(ref.Kind), ref.ID, raw)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	const q = `
UPDATE principal_sessions
SET sessions = $3::jsonb, version = version + 1, updated_at = now()
WHERE principal_kind = $1 AND principal_id = $2 AND version = $4
`
	res, err := s.db.ExecContext(ctx, q, string(ref.Kind), ref.ID, raw, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}
