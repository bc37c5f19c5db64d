package goGuard

import (
	"context"
	"time"

	internalmetrics "github.com/MrEthical07/goGuard/internal/metrics"
)

const (
	// RoleUser is an exported constant or variable used by the authentication engine.
	RoleUser = "ROLE_USER"
	// RoleAdmin is an exported constant or variable used by the authentication engine.
	RoleAdmin = "ROLE_ADMIN"
	// RoleModerator is an exported constant or variable used by the authentication engine.
	RoleModerator = "ROLE_MODERATOR"
)

// Principal defines a public type used by goGuard APIs.
//
// Principal instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Key is the unique identity key (an email address in the reference
// deployment). PasswordHash is opaque to this package; it is produced and
// checked only through a [PasswordHasher]. Deactivation flips Active to
// false; principals are never physically removed by this package.
type Principal struct {
	Key          string
	FirstName    string
	LastName     string
	Phone        string
	PasswordHash string
	Active       bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the principal's combined display name.
func (p *Principal) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// HasRole reports whether the principal carries the named role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SecurityContext defines a public type used by goGuard APIs.
//
// SecurityContext instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// A SecurityContext is written at most once per request, by the
// authentication middleware, and lives exactly as long as the request's
// context. The zero value is anonymous.
type SecurityContext struct {
	Key           string
	Roles         []string
	Authenticated bool
}

// Anonymous returns the unauthenticated SecurityContext.
func Anonymous() SecurityContext {
	return SecurityContext{}
}

// CredentialStore is the interface callers must implement to integrate
// goGuard with their principal database. Lookup misses are reported as
// [ErrPrincipalNotFound], never as a panic. Implementations must be safe
// for concurrent use.
type CredentialStore interface {
	FindByKey(ctx context.Context, key string) (*Principal, error)
	ExistsByKey(ctx context.Context, key string) (bool, error)
	Create(ctx context.Context, p *Principal) (*Principal, error)
}

// PasswordHasher produces and verifies credential hashes. The engine treats
// hashes as opaque strings; [password.Argon2] is the provided implementation.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// LoginRequest defines a public type used by goGuard APIs.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest defines a public type used by goGuard APIs.
//
// Roles may be empty; [Config.Account] DefaultRole is assigned in that case.
type RegisterRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Phone     string   `json:"phone,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// AuthResponse is returned by [Engine.Login], [Engine.Register], and
// [Engine.Refresh]. Registration and login share this shape on purpose.
type AuthResponse struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
}

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the authentication engine.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricRegisterSuccess is an exported constant or variable used by the authentication engine.
	MetricRegisterSuccess = internalmetrics.MetricRegisterSuccess
	// MetricRegisterConflict is an exported constant or variable used by the authentication engine.
	MetricRegisterConflict = internalmetrics.MetricRegisterConflict
	// MetricRefreshSuccess is an exported constant or variable used by the authentication engine.
	MetricRefreshSuccess = internalmetrics.MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the authentication engine.
	MetricRefreshFailure = internalmetrics.MetricRefreshFailure
	// MetricTokenRejected is an exported constant or variable used by the authentication engine.
	MetricTokenRejected = internalmetrics.MetricTokenRejected
	// MetricAnonymousDowngrade is an exported constant or variable used by the authentication engine.
	MetricAnonymousDowngrade = internalmetrics.MetricAnonymousDowngrade
	// MetricRateLimitHit is an exported constant or variable used by the authentication engine.
	MetricRateLimitHit = internalmetrics.MetricRateLimitHit
	// MetricStoreFailOpen is an exported constant or variable used by the authentication engine.
	MetricStoreFailOpen = internalmetrics.MetricStoreFailOpen
	// MetricStoreFailClosed is an exported constant or variable used by the authentication engine.
	MetricStoreFailClosed = internalmetrics.MetricStoreFailClosed
)

// Metrics holds atomic counters shared by the engine and middlewares.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance. When enabled is false, all
// operations are no-ops.
func NewMetrics(enabled bool) *Metrics {
	return internalmetrics.New(enabled)
}
