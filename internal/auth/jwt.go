package auth

import (
	"errors"
	"time"

	"pos-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned for structurally valid tokens past their
	// expiry. Callers may report it distinctly in logs; clients see 401.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid covers every other verification failure.
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// Manager signs and verifies the two token kinds. It holds no request
// state; failures are terminal, never retried.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// AccessTokenInput carries the identity fields stamped into an access token.
type AccessTokenInput struct {
	PrincipalID   string
	PrincipalType string
	TenantID      string
	Email         string
	Role          string
	BusinessName  string
	Username      string
}

func (m *Manager) IssueAccessToken(now time.Time, in AccessTokenInput) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: m.registered(now, in.PrincipalID, m.accessTTL),
		TenantID:         in.TenantID,
		Email:            in.Email,
		Role:             in.Role,
		BusinessName:     in.BusinessName,
		Username:         in.Username,
		PrincipalType:    in.PrincipalType,
		TokenUse:         TokenUseAccess,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) IssueRefreshToken(now time.Time, principalID, principalType, tenantID string) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: m.registered(now, principalID, m.refreshTTL),
		TenantID:         tenantID,
		PrincipalType:    principalType,
		TokenUse:         TokenUseRefresh,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyAccessToken validates signature, expiry and claim shape for an
// access token at the given instant.
func (m *Manager) VerifyAccessToken(tokenString string, now time.Time) (AccessClaims, error) {
	var claims AccessClaims
	if err := m.verify(tokenString, &claims, now); err != nil {
		return AccessClaims{}, err
	}
	if claims.TokenUse != TokenUseAccess {
		return AccessClaims{}, ErrTokenInvalid
	}
	if claims.TenantID == "" || claims.Role == "" || claims.Email == "" {
		return AccessClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyRefreshToken validates a refresh token. Expiry is checked here,
// before any store lookup happens.
func (m *Manager) VerifyRefreshToken(tokenString string, now time.Time) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := m.verify(tokenString, &claims, now); err != nil {
		return RefreshClaims{}, err
	}
	if claims.TokenUse != TokenUseRefresh {
		return RefreshClaims{}, ErrTokenInvalid
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return RefreshClaims{}, ErrTokenInvalid
	}
	if claims.PrincipalType != PrincipalTypeTenant && claims.PrincipalType != PrincipalTypeUser {
		return RefreshClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (m *Manager) verify(tokenString string, claims jwt.Claims, now time.Time) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30*time.Second),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	return nil
}

func (m *Manager) registered(now time.Time, subject string, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}
