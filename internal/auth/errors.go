package auth

import "errors"

// Typed errors surfaced by the service.  Every user-input-driven failure is
// recovered at this boundary and mapped onto one of these sentinels; no
// internal detail leaks past them.  Anything else returned by a service
// method is a store or transport failure and is treated as an internal
// error by the handlers.
var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords
	// uniformly so the two cases cannot be told apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken means the presented token failed cryptographic or
	// structural validation, or is of the wrong type for the operation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenRevoked means the token was explicitly blacklisted.  Distinct
	// from expiry: a revoked-but-unexpired token turning up again signals a
	// likely replay.
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrAccountInactive rejects authentication for deactivated accounts.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrEmailTaken rejects registration with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound covers missing or consumed password reset tokens and
	// similar lookups where absence is the user-facing outcome.
	ErrNotFound = errors.New("not found")

	// ErrNoActiveSession is the typed outcome of logging out a token that
	// was already revoked; a repeated logout is not a crash.
	ErrNoActiveSession = errors.New("no active session")

	// ErrInvalidCode rejects an email verification attempt whose code does
	// not match the stored one.  The code is not rotated on mismatch, so
	// repeated attempts are allowed.
	ErrInvalidCode = errors.New("invalid verification code")
)
