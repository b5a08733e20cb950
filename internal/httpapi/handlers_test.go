package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"pos-platform/internal/audit"
	"pos-platform/internal/auth"
	"pos-platform/internal/authn"
	"pos-platform/internal/config"
	"pos-platform/internal/password"
	"pos-platform/internal/principal"
	"pos-platform/internal/rbac"
	"pos-platform/internal/session"

	"github.com/gin-gonic/gin"
)

var (
	hashOnce sync.Once
	hashed   string
)

func seededHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.Hash("password123")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		hashed = h
	})
	return hashed
}

// newTestRouter builds the full auth surface against in-memory stores.
func newTestRouter(t *testing.T) (*gin.Engine, *principal.MemoryDirectory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "secret",
		JWTIssuer:       "pos",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	directory := principal.NewMemoryDirectory()
	directory.PutTenant(principal.Tenant{
		ID:           "tenant-1",
		BusinessName: "Tech Corp",
		Email:        "admin@techcorp.com",
		PasswordHash: seededHash(t),
		IsActive:     true,
	})
	directory.PutUser(principal.User{
		ID:           "user-1",
		TenantID:     "tenant-1",
		Name:         "carla",
		Email:        "carla@techcorp.com",
		PasswordHash: seededHash(t),
		IsActive:     true,
		Role:         rbac.RoleCashier,
	})

	registry := session.NewRegistry(session.NewMemoryStore())
	svc, err := authn.NewService(directory, registry, tokens, audit.NewService(audit.NewMemoryRepo()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	h := Handlers{Auth: svc}
	authMW := auth.RequireAccessToken(tokens, svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", authMW, h.Logout)
	v1 := r.Group("/v1", authMW)
	v1.GET("/me", h.Me)
	v1.GET("/admin/ping", rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r, directory
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, businessName, email, pass string) map[string]string {
	t.Helper()
	body, _ := json.Marshal(gin.H{"businessName": businessName, "email": email, "password": pass})
	w := doJSON(t, r, http.MethodPost, "/auth/login", string(body), "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	out := login(t, r, "Tech Corp", "admin@techcorp.com", "password123")
	if out["access_token"] == "" || out["refresh_token"] == "" {
		t.Fatalf("missing tokens in %v", out)
	}
	if out["role"] != rbac.RoleAdmin {
		t.Fatalf("role = %q, want ADMIN", out["role"])
	}
	if out["businessName"] != "Tech Corp" {
		t.Fatalf("businessName = %q", out["businessName"])
	}
}

func TestLoginEndpointMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/auth/login", `{"email":"a@b.c"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// Every authentication failure must produce the exact same 401 body, so the
// response leaks nothing about which part of the credentials was wrong.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r, directory := newTestRouter(t)
	directory.PutUser(principal.User{
		ID:           "user-2",
		TenantID:     "tenant-1",
		Name:         "dora",
		Email:        "dora@techcorp.com",
		PasswordHash: seededHash(t),
		IsActive:     false,
		Role:         rbac.RoleCashier,
	})

	bodies := map[string]string{
		"wrong password":   `{"businessName":"Tech Corp","email":"admin@techcorp.com","password":"nope"}`,
		"unknown business": `{"businessName":"Ghost Corp","email":"admin@techcorp.com","password":"password123"}`,
		"unknown email":    `{"businessName":"Tech Corp","email":"nobody@techcorp.com","password":"password123"}`,
		"inactive user":    `{"businessName":"Tech Corp","email":"dora@techcorp.com","password":"password123"}`,
	}

	var first string
	for name, body := range bodies {
		w := doJSON(t, r, http.MethodPost, "/auth/login", body, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, w.Code)
		}
		if first == "" {
			first = w.Body.String()
			continue
		}
		if w.Body.String() != first {
			t.Fatalf("%s: body %q differs from %q", name, w.Body.String(), first)
		}
	}
}

func TestRefreshEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	out := login(t, r, "Tech Corp", "admin@techcorp.com", "password123")

	body, _ := json.Marshal(gin.H{"refreshToken": out["refresh_token"]})
	w := doJSON(t, r, http.MethodPost, "/auth/refresh", string(body), "")
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", w.Code, w.Body.String())
	}
	var pair map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pair["refresh_token"] == "" || pair["refresh_token"] == out["refresh_token"] {
		t.Fatalf("refresh token was not rotated")
	}

	// The pre-rotation token is no longer registered.
	w = doJSON(t, r, http.MethodPost, "/auth/refresh", string(body), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("stale refresh status = %d, want 401", w.Code)
	}
}

func TestRefreshEndpointMissingToken(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/auth/refresh", `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLogoutSingleSession(t *testing.T) {
	r, _ := newTestRouter(t)
	out := login(t, r, "Tech Corp", "admin@techcorp.com", "password123")

	body, _ := json.Marshal(gin.H{"refreshToken": out["refresh_token"]})
	w := doJSON(t, r, http.MethodPost, "/auth/logout", string(body), out["access_token"])
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/auth/refresh", string(body), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d, want 401", w.Code)
	}
}

func TestLogoutEverywhere(t *testing.T) {
	r, _ := newTestRouter(t)
	first := login(t, r, "Tech Corp", "admin@techcorp.com", "password123")
	second := login(t, r, "Tech Corp", "admin@techcorp.com", "password123")

	// No refreshToken in the body clears every session.
	w := doJSON(t, r, http.MethodPost, "/auth/logout", `{}`, second["access_token"])
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body %s", w.Code, w.Body.String())
	}

	for _, out := range []map[string]string{first, second} {
		body, _ := json.Marshal(gin.H{"refreshToken": out["refresh_token"]})
		w := doJSON(t, r, http.MethodPost, "/auth/refresh", string(body), "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("refresh after logout-all status = %d, want 401", w.Code)
		}
	}
}

func TestLogoutRequiresBearer(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/auth/logout", `{}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestMeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	out := login(t, r, "Tech Corp", "carla@techcorp.com", "password123")

	w := doJSON(t, r, http.MethodGet, "/v1/me", "", out["access_token"])
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", w.Code, w.Body.String())
	}
	var me map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me["tenantId"] != "tenant-1" || me["role"] != rbac.RoleCashier || me["name"] != "carla" {
		t.Fatalf("unexpected identity %v", me)
	}
}

func TestDeactivationCutsAccess(t *testing.T) {
	r, directory := newTestRouter(t)
	out := login(t, r, "Tech Corp", "carla@techcorp.com", "password123")

	directory.PutUser(principal.User{
		ID:           "user-1",
		TenantID:     "tenant-1",
		Name:         "carla",
		Email:        "carla@techcorp.com",
		PasswordHash: seededHash(t),
		IsActive:     false,
		Role:         rbac.RoleCashier,
	})

	// The access token is still within its lifetime, but the principal is
	// re-validated on every request.
	w := doJSON(t, r, http.MethodGet, "/v1/me", "", out["access_token"])
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRoleGate(t *testing.T) {
	r, _ := newTestRouter(t)

	cashier := login(t, r, "Tech Corp", "carla@techcorp.com", "password123")
	w := doJSON(t, r, http.MethodGet, "/v1/admin/ping", "", cashier["access_token"])
	if w.Code != http.StatusForbidden {
		t.Fatalf("cashier status = %d, want 403", w.Code)
	}

	admin := login(t, r, "Tech Corp", "admin@techcorp.com", "password123")
	w = doJSON(t, r, http.MethodGet, "/v1/admin/ping", "", admin["access_token"])
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body %s", w.Code, w.Body.String())
	}
}
