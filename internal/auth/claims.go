package auth

import "github.com/golang-jwt/jwt/v5"

// TokenUse separates access from refresh tokens inside one signing
// namespace. A refresh token must never authorize a request directly.
type TokenUse string

const (
	TokenUseAccess  TokenUse = "access"
	TokenUseRefresh TokenUse = "refresh"
)

// Principal type values mirror principal.Kind; they are duplicated here so
// the token layer stays free of storage imports. The strings are part of the
// refresh-token contract ("type" claim).
const (
	PrincipalTypeTenant = "tenant"
	PrincipalTypeUser   = "user"
)

// AccessClaims is the authorization payload attached to every request.
// Exactly one of BusinessName/Username is set, depending on the principal
// variant. TenantID is the tenant scope, never the user's own ID.
type AccessClaims struct {
	jwt.RegisteredClaims

	TenantID      string   `json:"tenantId"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	BusinessName  string   `json:"businessName,omitempty"`
	Username      string   `json:"username,omitempty"`
	PrincipalType string   `json:"type"`
	TokenUse      TokenUse `json:"token_use"`
}

// RefreshClaims identify the principal a session belongs to. Subject is the
// principal's own ID (for users, not the tenant's).
type RefreshClaims struct {
	jwt.RegisteredClaims

	TenantID      string   `json:"tenantId"`
	PrincipalType string   `json:"type"`
	TokenUse      TokenUse `json:"token_use"`
}
