package principal

import (
	"context"
	"errors"
)

// ErrNotFound is returned by every lookup that matches no row.
// The authentication service collapses it into a generic credentials failure
// before anything reaches a client.
var ErrNotFound = errors.New("principal: not found")

// Directory is the read side of principal storage used by the auth core.
// Provisioning (tenant signup, user creation) writes through its own module
// and is not part of this interface.
type Directory interface {
	FindTenantByBusinessNameAndEmail(ctx context.Context, businessName, email string) (*Tenant, error)
	FindTenantByBusinessName(ctx context.Context, businessName string) (*Tenant, error)
	FindTenantByID(ctx context.Context, id string) (*Tenant, error)
	FindUserByEmailAndTenant(ctx context.Context, email, tenantID string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
}

// Load resolves a Ref to its concrete principal.
func Load(ctx context.Context, d Directory, ref Ref) (Principal, error) {
	switch ref.Kind {
	case KindTenant:
		t, err := d.FindTenantByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return t, nil
	case KindUser:
		u, err := d.FindUserByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, ErrNotFound
	}
}
