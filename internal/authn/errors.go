package authn

import "errors"

// The taxonomy is internal. The HTTP layer collapses every authentication
// failure into one generic 401 body so callers cannot probe whether a
// business, email or password was the wrong part.
var (
	// ErrInvalidCredentials covers unknown business, unknown user and wrong
	// password alike.
	ErrInvalidCredentials = errors.New("authn: invalid credentials")

	// ErrInactiveAccount is a deactivated (or deleted) principal with
	// otherwise plausible credentials. Distinguishable in logs and audit
	// only.
	ErrInactiveAccount = errors.New("authn: account inactive")

	// ErrSessionNotFound is a refresh token that verifies but is no longer
	// registered as a session.
	ErrSessionNotFound = errors.New("authn: session not found")

	// ErrSessionManagement wraps persistence failures while mutating the
	// session list. Surfaced to clients as a generic 401 to avoid leaking a
	// partially registered session.
	ErrSessionManagement = errors.New("authn: session management failed")
)
