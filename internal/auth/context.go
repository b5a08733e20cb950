package auth

import (
	"context"
	"errors"
)

// Identity is the re-validated principal attached to every authorized
// request. Downstream modules read tenant scope, email and role from it and
// never touch raw token claims.
type Identity struct {
	PrincipalType string // "tenant" or "user"
	PrincipalID   string
	TenantID      string
	Email         string
	Role          string
	Name          string // businessName for tenants, user name otherwise
}

type ctxKey int

const ctxIdentity ctxKey = iota

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxIdentity).(Identity); ok && id.TenantID != "" {
		return id, nil
	}
	return Identity{}, errors.New("identity not in context")
}

func TenantIDFrom(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil {
		return "", err
	}
	return id.TenantID, nil
}

func RoleFrom(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil {
		return "", err
	}
	return id.Role, nil
}
