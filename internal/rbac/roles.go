package rbac

// Role names. Keep these stable; they are stamped into access tokens and
// stored on user rows. Tenants always authenticate as ADMIN.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	default:
		return false
	}
}
