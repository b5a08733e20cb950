package authn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-platform/internal/audit"
	"pos-platform/internal/auth"
	"pos-platform/internal/password"
	"pos-platform/internal/principal"
	"pos-platform/internal/session"
	"pos-platform/pkg/logger"
)

// Service orchestrates login resolution, token issuance, refresh rotation
// and logout. It owns no state of its own; principals and sessions live in
// their stores, tokens carry their own expiry.
//
// Refresh rotation contract: every successful refresh replaces the session's
// refresh token with a freshly issued one. The previous refresh token is
// dead the moment the response is written. Session createdAt is preserved
// across rotations; lastUsed is updated.
//
// Logout contract: logout with a refresh token removes exactly that session;
// logout without one clears every session for the principal.
type Service struct {
	directory principal.Directory
	registry  *session.Registry
	tokens    *auth.Manager
	audit     *audit.Service
	now       func() time.Time
}

type Option func(*Service)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(directory principal.Directory, registry *session.Registry, tokens *auth.Manager, auditor *audit.Service, opts ...Option) (*Service, error) {
	if directory == nil {
		return nil, errors.New("authn: directory is required")
	}
	if registry == nil {
		return nil, errors.New("authn: session registry is required")
	}
	if tokens == nil {
		return nil, errors.New("authn: token manager is required")
	}
	s := &Service{
		directory: directory,
		registry:  registry,
		tokens:    tokens,
		audit:     auditor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LoginResult is the login response body. Exactly one of BusinessName or
// Username is set, matching the resolved principal variant.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	BusinessName string `json:"businessName,omitempty"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email"`
}

// TokenPair is the refresh response body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login resolves (businessName, email, password) against both principal
// kinds. A tenant match on (businessName, email) wins; otherwise the email
// is tried as a user of the tenant owning businessName. All resolution
// failures collapse into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, businessName, email, password, deviceInfo string) (*LoginResult, error) {
	tenant, err := s.directory.FindTenantByBusinessNameAndEmail(ctx, businessName, email)
	switch {
	case err == nil:
		return s.loginPrincipal(ctx, tenant, password, deviceInfo)
	case errors.Is(err, principal.ErrNotFound):
		// Not the tenant's own credentials; try the user path.
	default:
		return nil, fmt.Errorf("authn: tenant lookup: %w", err)
	}

	owner, err := s.directory.FindTenantByBusinessName(ctx, businessName)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			s.auditLogin(ctx, "", email, "", deviceInfo, audit.OutcomeDenied, "unknown business")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authn: tenant lookup: %w", err)
	}

	user, err := s.directory.FindUserByEmailAndTenant(ctx, email, owner.ID)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			s.auditLogin(ctx, owner.ID, email, "", deviceInfo, audit.OutcomeDenied, "unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authn: user lookup: %w", err)
	}

	return s.loginPrincipal(ctx, user, password, deviceInfo)
}

func (s *Service) loginPrincipal(ctx context.Context, p principal.Principal, pw, deviceInfo string) (*LoginResult, error) {
	scope := p.TenantScope()
	if !p.Active() {
		s.auditLogin(ctx, scope, p.AccountEmail(), p.AccountRole(), deviceInfo, audit.OutcomeDenied, "inactive account")
		return nil, ErrInactiveAccount
	}
	if !s.verifyPassword(pw, p) {
		s.auditLogin(ctx, scope, p.AccountEmail(), p.AccountRole(), deviceInfo, audit.OutcomeDenied, "password mismatch")
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := s.issuePair(p)
	if err != nil {
		return nil, fmt.Errorf("authn: token issuance: %w", err)
	}

	now := s.now()
	if err := s.registry.Register(ctx, p, session.Session{
		Token:      refresh,
		CreatedAt:  now,
		LastUsed:   now,
		DeviceInfo: deviceInfo,
	}); err != nil {
		logger.From(ctx).Error("session registration failed", "tenant_id", scope, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrSessionManagement, err)
	}

	s.auditLogin(ctx, scope, p.AccountEmail(), p.AccountRole(), deviceInfo, audit.OutcomeSuccess, "")

	result := &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         p.AccountRole(),
		Email:        p.AccountEmail(),
	}
	switch v := p.(type) {
	case *principal.Tenant:
		result.BusinessName = v.BusinessName
	case *principal.User:
		result.Username = v.Name
	}
	return result, nil
}

// Refresh exchanges a registered refresh token for a new pair, rotating the
// stored session token. Expiry is rejected before any store access.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken, s.now())
	if err != nil {
		return nil, err
	}

	ref := principal.Ref{Kind: principal.Kind(claims.PrincipalType), ID: claims.Subject}
	p, err := principal.Load(ctx, s.directory, ref)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return nil, ErrInactiveAccount
		}
		return nil, fmt.Errorf("authn: principal lookup: %w", err)
	}
	if !p.Active() {
		s.auditSession(ctx, audit.EventTypeRefresh, p, audit.OutcomeDenied, "inactive account")
		return nil, ErrInactiveAccount
	}

	existing, err := s.registry.Find(ctx, ref, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionManagement, err)
	}
	if existing == nil {
		s.auditSession(ctx, audit.EventTypeRefresh, p, audit.OutcomeDenied, "unregistered refresh token")
		return nil, ErrSessionNotFound
	}

	access, next, err := s.issuePair(p)
	if err != nil {
		return nil, fmt.Errorf("authn: token issuance: %w", err)
	}

	rotated, err := s.registry.Rotate(ctx, ref, refreshToken, next)
	if err != nil {
		logger.From(ctx).Error("refresh rotation failed", "tenant_id", p.TenantScope(), "err", err)
		return nil, fmt.Errorf("%w: %v", ErrSessionManagement, err)
	}
	if !rotated {
		// The session vanished between Find and Rotate (concurrent logout).
		return nil, ErrSessionNotFound
	}

	s.auditSession(ctx, audit.EventTypeRefresh, p, audit.OutcomeSuccess, "")
	return &TokenPair{AccessToken: access, RefreshToken: next}, nil
}

// LogoutSession removes the single session registered under refreshToken.
func (s *Service) LogoutSession(ctx context.Context, ref principal.Ref, refreshToken string) error {
	if err := s.registry.Remove(ctx, ref, refreshToken); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionManagement, err)
	}
	s.auditRef(ctx, audit.EventTypeLogoutSession, ref)
	return nil
}

// LogoutAll wipes every session for the principal (logout everywhere).
func (s *Service) LogoutAll(ctx context.Context, ref principal.Ref) error {
	if err := s.registry.Clear(ctx, ref); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionManagement, err)
	}
	s.auditRef(ctx, audit.EventTypeLogoutAll, ref)
	return nil
}

// ResolveIdentity re-validates decoded access claims against the directory:
// the principal must still exist and still be active. Role and name come
// from current state, not the token, so role changes and deactivation apply
// within one request.
func (s *Service) ResolveIdentity(ctx context.Context, claims auth.AccessClaims) (auth.Identity, error) {
	var p principal.Principal
	var err error
	switch claims.PrincipalType {
	case auth.PrincipalTypeTenant:
		p, err = s.directory.FindTenantByID(ctx, claims.TenantID)
	case auth.PrincipalTypeUser:
		p, err = s.directory.FindUserByEmailAndTenant(ctx, claims.Email, claims.TenantID)
	default:
		return auth.Identity{}, auth.ErrTokenInvalid
	}
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return auth.Identity{}, ErrInvalidCredentials
		}
		return auth.Identity{}, fmt.Errorf("authn: principal lookup: %w", err)
	}
	if !p.Active() {
		return auth.Identity{}, ErrInactiveAccount
	}
	return auth.Identity{
		PrincipalType: claims.PrincipalType,
		PrincipalID:   p.Ref().ID,
		TenantID:      p.TenantScope(),
		Email:         p.AccountEmail(),
		Role:          p.AccountRole(),
		Name:          p.DisplayName(),
	}, nil
}

func (s *Service) issuePair(p principal.Principal) (access, refresh string, err error) {
	now := s.now()
	in := auth.AccessTokenInput{
		PrincipalID: p.Ref().ID,
		TenantID:    p.TenantScope(),
		Email:       p.AccountEmail(),
		Role:        p.AccountRole(),
	}
	switch v := p.(type) {
	case *principal.Tenant:
		in.PrincipalType = auth.PrincipalTypeTenant
		in.BusinessName = v.BusinessName
	case *principal.User:
		in.PrincipalType = auth.PrincipalTypeUser
		in.Username = v.Name
	default:
		return "", "", fmt.Errorf("authn: unsupported principal %T", p)
	}

	access, err = s.tokens.IssueAccessToken(now, in)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.IssueRefreshToken(now, in.PrincipalID, in.PrincipalType, in.TenantID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *Service) verifyPassword(pw string, p principal.Principal) bool {
	switch v := p.(type) {
	case *principal.Tenant:
		return password.Verify(pw, v.PasswordHash)
	case *principal.User:
		return password.Verify(pw, v.PasswordHash)
	default:
		return false
	}
}

func (s *Service) auditLogin(ctx context.Context, tenantID, email, role, deviceInfo string, outcome audit.Outcome, msg string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogLogin(ctx, tenantID, email, role, deviceInfo, outcome, msg); err != nil {
		logger.From(ctx).Warn("audit append failed", "err", err)
	}
}

func (s *Service) auditSession(ctx context.Context, t audit.EventType, p principal.Principal, outcome audit.Outcome, msg string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogSession(ctx, t, p.TenantScope(), p.AccountEmail(), outcome, msg); err != nil {
		logger.From(ctx).Warn("audit append failed", "err", err)
	}
}

func (s *Service) auditRef(ctx context.Context, t audit.EventType, ref principal.Ref) {
	if s.audit == nil {
		return
	}
	p, err := principal.Load(ctx, s.directory, ref)
	if err != nil {
		return
	}
	if err := s.audit.LogSession(ctx, t, p.TenantScope(), p.AccountEmail(), audit.OutcomeSuccess, ""); err != nil {
		logger.From(ctx).Warn("audit append failed", "err", err)
	}
}
