package principal

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following tables exist:
//
//   tenants (id, business_name UNIQUE, email UNIQUE, password_hash,
//            is_active, max_sessions, created_at, updated_at)
//   users   (id, tenant_id, name, email, password_hash, is_active, role,
//            max_sessions, created_at, updated_at,
//            UNIQUE (email, tenant_id))

type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

const tenantColumns = `id, business_name, email, password_hash, is_active, max_sessions`

func (d *PostgresDirectory) FindTenantByBusinessNameAndEmail(ctx context.Context, businessName, email string) (*Tenant, error) {
	const q = `
SELECT ` + tenantColumns + `
FROM tenants
WHERE business_name = $1 AND email = $2
`
	return d.scanTenant(d.db.QueryRowContext(ctx, q, businessName, email))
}

func (d *PostgresDirectory) FindTenantByBusinessName(ctx context.Context, businessName string) (*Tenant, error) {
	const q = `
SELECT ` + tenantColumns + `
FROM tenants
WHERE business_name = $1
`
	return d.scanTenant(d.db.QueryRowContext(ctx, q, businessName))
}

func (d *PostgresDirectory) FindTenantByID(ctx context.Context, id string) (*Tenant, error) {
	const q = `
SELECT ` + tenantColumns + `
FROM tenants
WHERE id = $1
`
	return d.scanTenant(d.db.QueryRowContext(ctx, q, id))
}

const userColumns = `id, tenant_id, name, email, password_hash, is_active, role, max_sessions`

func (d *PostgresDirectory) FindUserByEmailAndTenant(ctx context.Context, email, tenantID string) (*User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1 AND tenant_id = $2
`
	return d.scanUser(d.db.QueryRowContext(ctx, q, email, tenantID))
}

func (d *PostgresDirectory) FindUserByID(ctx context.Context, id string) (*User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`
	return d.scanUser(d.db.QueryRowContext(ctx, q, id))
}

func (d *PostgresDirectory) scanTenant(row *sql.Row) (*Tenant, error) {
	var t Tenant
	if err := row.Scan(
		&t.ID,
		&t.BusinessName,
		&t.Email,
		&t.PasswordHash,
		&t.IsActive,
		&t.MaxSessions,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (d *PostgresDirectory) scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(
		&u.ID,
		&u.TenantID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.Role,
		&u.MaxSessions,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
