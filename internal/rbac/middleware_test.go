package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

func routerWithRole(role string, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		if role != "" {
			ctx := auth.WithIdentity(c.Request.Context(), auth.Identity{
				PrincipalType: "user",
				PrincipalID:   "u1",
				TenantID:      "t1",
				Email:         "u@x.com",
				Role:          role,
			})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}, mw, func(c *gin.Context) {
		c.Status(200)
	})
	return r
}

func do(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRequireAnyRole_AllowedRolePasses(t *testing.T) {
	w := do(routerWithRole(RoleManager, RequireAnyRole(RoleAdmin, RoleManager)))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAnyRole_MismatchIsForbidden(t *testing.T) {
	w := do(routerWithRole(RoleCashier, RequireAnyRole(RoleAdmin, RoleManager)))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireAnyRole_MissingIdentityIsUnauthorized(t *testing.T) {
	w := do(routerWithRole("", RequireAnyRole(RoleAdmin)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAnyRole_EmptySetIsUnrestricted(t *testing.T) {
	w := do(routerWithRole(RoleCashier, RequireAnyRole()))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
