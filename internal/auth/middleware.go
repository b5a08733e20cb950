package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// IdentityResolver re-validates decoded access claims against current
// principal state. Tokens are not self-sufficient: a deactivated account
// must be rejected on its next request, not when the token expires. The
// implementation lives with the authentication service to keep this package
// free of storage dependencies.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, claims AccessClaims) (Identity, error)
}

// RequireAccessToken verifies a bearer access token, re-validates the
// principal and injects the resulting identity into the request context.
// Role checks belong to internal/rbac, chained after this.
func RequireAccessToken(m *Manager, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.VerifyAccessToken(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		identity, err := resolver.ResolveIdentity(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}
