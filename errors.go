package goGuard

import "errors"

var (
	// ErrAuthenticationFailed is an exported constant or variable used by the authentication engine.
	//
	// It deliberately conflates unknown identity keys, wrong secrets, and
	// deactivated accounts so callers cannot enumerate principals.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrPrincipalNotFound is an exported constant or variable used by the authentication engine.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPrincipalInactive is an exported constant or variable used by the authentication engine.
	ErrPrincipalInactive = errors.New("principal deactivated")
	// ErrAccountExists is an exported constant or variable used by the authentication engine.
	ErrAccountExists = errors.New("identity key already registered")
	// ErrRegistrationInvalid is an exported constant or variable used by the authentication engine.
	ErrRegistrationInvalid = errors.New("invalid registration request")
	// ErrRoleInvalid is an exported constant or variable used by the authentication engine.
	ErrRoleInvalid = errors.New("invalid role name")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrRateLimited is an exported constant or variable used by the authentication engine.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("shared store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
