package principal

import "pos-platform/internal/rbac"

// Kind discriminates the two principal variants. It is carried in refresh
// tokens as the "type" claim, so the string values are part of the token
// contract.
type Kind string

const (
	KindTenant Kind = "tenant"
	KindUser   Kind = "user"
)

// Ref identifies a principal without loading it.
type Ref struct {
	Kind Kind
	ID   string
}

// Principal is the tagged union over Tenant and User. Callers that need
// variant-specific fields switch on the concrete type; everything the auth
// core needs is available through the interface.
type Principal interface {
	Ref() Ref
	// TenantScope is the tenant ID stamped into tokens. A tenant is its own
	// scope; a user's scope is its parent tenant.
	TenantScope() string
	AccountEmail() string
	AccountRole() string
	Active() bool
	SessionLimit() int
	// DisplayName is the businessName for tenants, the username for users.
	DisplayName() string
}

// Tenant is a business account. Its token role is always ADMIN.
type Tenant struct {
	ID           string
	BusinessName string
	Email        string
	PasswordHash string
	IsActive     bool
	MaxSessions  int
}

func (t *Tenant) Ref() Ref             { return Ref{Kind: KindTenant, ID: t.ID} }
func (t *Tenant) TenantScope() string  { return t.ID }
func (t *Tenant) AccountEmail() string { return t.Email }
func (t *Tenant) AccountRole() string  { return rbac.RoleAdmin }
func (t *Tenant) Active() bool         { return t.IsActive }
func (t *Tenant) SessionLimit() int    { return t.MaxSessions }
func (t *Tenant) DisplayName() string  { return t.BusinessName }

// User is an employee account scoped to one tenant.
// (Email, TenantID) is unique; the same email may exist under other tenants.
type User struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	Role         string
	MaxSessions  int
}

func (u *User) Ref() Ref             { return Ref{Kind: KindUser, ID: u.ID} }
func (u *User) TenantScope() string  { return u.TenantID }
func (u *User) AccountEmail() string { return u.Email }
func (u *User) AccountRole() string  { return u.Role }
func (u *User) Active() bool         { return u.IsActive }
func (u *User) SessionLimit() int    { return u.MaxSessions }
func (u *User) DisplayName() string  { return u.Name }
