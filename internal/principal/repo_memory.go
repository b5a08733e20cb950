package principal

import (
	"context"
	"sync"
)

// MemoryDirectory is an in-memory Directory used in tests and local
// development. Copies are returned so callers cannot mutate stored state.
type MemoryDirectory struct {
	mu      sync.RWMutex
	tenants map[string]Tenant // by ID
	users   map[string]User   // by ID
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		tenants: make(map[string]Tenant),
		users:   make(map[string]User),
	}
}

func (d *MemoryDirectory) PutTenant(t Tenant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenants[t.ID] = t
}

func (d *MemoryDirectory) PutUser(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *MemoryDirectory) FindTenantByBusinessNameAndEmail(_ context.Context, businessName, email string) (*Tenant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, t := range d.tenants {
		if t.BusinessName == businessName && t.Email == email {
			out := t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (d *MemoryDirectory) FindTenantByBusinessName(_ context.Context, businessName string) (*Tenant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, t := range d.tenants {
		if t.BusinessName == businessName {
			out := t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (d *MemoryDirectory) FindTenantByID(_ context.Context, id string) (*Tenant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if t, ok := d.tenants[id]; ok {
		out := t
		return &out, nil
	}
	return nil, ErrNotFound
}

func (d *MemoryDirectory) FindUserByEmailAndTenant(_ context.Context, email, tenantID string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email && u.TenantID == tenantID {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (d *MemoryDirectory) FindUserByID(_ context.Context, id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if u, ok := d.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, ErrNotFound
}
