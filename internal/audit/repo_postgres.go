package audit

import (
	"context"
	"database/sql"
)

// NOTE: This repository assumes the following table exists, INSERT-only:
//
//   audit_events (id, tenant_id, type, actor_email, actor_role, outcome,
//                 device_info, message, created_at)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
  id, tenant_id, type, actor_email, actor_role, outcome, device_info, message, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.TenantID,
		string(e.Type),
		e.ActorEmail,
		e.ActorRole,
		string(e.Outcome),
		e.DeviceInfo,
		e.Message,
		e.CreatedAt,
	)
	return err
}
