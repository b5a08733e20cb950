package httpapi

import (
	"errors"
	"net/http"

	"pos-platform/internal/auth"
	"pos-platform/internal/authn"
	"pos-platform/internal/principal"
	"pos-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth *authn.Service
}

// Every authentication failure gets this body. The client must not learn
// whether the business, the email or the password was wrong, nor whether an
// account is deactivated.
const genericAuthError = "invalid credentials"

type loginRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// Login resolves tenant or user credentials and returns a token pair.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "businessName, email, password required"})
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.BusinessName, req.Email, req.Password, c.Request.UserAgent())
	if err != nil {
		h.rejectAuth(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a registered refresh token for a rotated pair.
func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refreshToken required"})
		return
	}

	pair, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.rejectAuth(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout ends sessions for the authenticated principal. With a refreshToken
// in the body it removes that single session; without one it clears every
// session (logout everywhere).
func (h Handlers) Logout(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": genericAuthError})
		return
	}
	ref := principal.Ref{Kind: principal.Kind(identity.PrincipalType), ID: identity.PrincipalID}

	var req logoutRequest
	// Body is optional; ignore malformed JSON the same as an empty body.
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken != "" {
		err = h.Auth.LogoutSession(c.Request.Context(), ref, req.RefreshToken)
	} else {
		err = h.Auth.LogoutAll(c.Request.Context(), ref)
	}
	if err != nil {
		logger.From(c.Request.Context()).Error("logout failed", "tenant_id", identity.TenantID, "err", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": genericAuthError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the re-validated identity of the caller.
func (h Handlers) Me(c *gin.Context) {
	identity, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": genericAuthError})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tenantId": identity.TenantID,
		"email":    identity.Email,
		"role":     identity.Role,
		"name":     identity.Name,
	})
}

// rejectAuth maps the internal error taxonomy onto the wire contract: one
// generic 401 for everything authentication-related. The distinction stays
// in logs and audit.
func (h Handlers) rejectAuth(c *gin.Context, err error) {
	log := logger.From(c.Request.Context())
	switch {
	case errors.Is(err, authn.ErrInvalidCredentials),
		errors.Is(err, authn.ErrInactiveAccount),
		errors.Is(err, authn.ErrSessionNotFound),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenInvalid):
		log.Info("authentication denied", "reason", err.Error())
	default:
		log.Error("authentication error", "err", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": genericAuthError})
}
