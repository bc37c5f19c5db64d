package goGuard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MrEthical07/goGuard/internal/ratelimit"
	"github.com/MrEthical07/goGuard/token"
)

// Engine defines a public type used by goGuard APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	tokens   *token.Manager
	resolver *Resolver
	store    CredentialStore
	hasher   PasswordHasher
	limiter  *ratelimit.Limiter
	metrics  *Metrics
}

// Config returns a copy of the engine's configuration. Middlewares use it
// for path-prefix decisions.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return e.config
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Unknown identity keys, wrong secrets, and deactivated accounts all
// return [ErrAuthenticationFailed] with no distinguishing detail, so the
// endpoint cannot be used to enumerate principals.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	if req.Email == "" || req.Password == "" {
		e.metricInc(MetricLoginFailure)
		return nil, ErrAuthenticationFailed
	}

	p, err := e.store.FindByKey(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			e.metricInc(MetricLoginFailure)
			return nil, ErrAuthenticationFailed
		}
		log.Print("goGuard: credential store unavailable during login")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ok, err := e.hasher.Verify(req.Password, p.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		return nil, ErrAuthenticationFailed
	}

	if !p.Active {
		e.metricInc(MetricLoginFailure)
		return nil, ErrAuthenticationFailed
	}

	resp, err := e.issuePair(p)
	if err != nil {
		return nil, err
	}
	e.metricInc(MetricLoginSuccess)
	return resp, nil
}

// Register describes the register operation and its observable behavior.
//
// An already-registered identity key returns [ErrAccountExists]. When no
// roles are supplied, [AccountConfig] DefaultRole is assigned. The role
// set is deduplicated and, when AllowedRoles is non-empty, validated
// against it. Success issues tokens exactly like [Engine.Login].
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		return nil, ErrRegistrationInvalid
	}
	if req.Password == "" {
		return nil, ErrPasswordPolicy
	}

	roles, err := e.normalizeRoles(req.Roles)
	if err != nil {
		return nil, err
	}

	exists, err := e.store.ExistsByKey(ctx, req.Email)
	if err != nil {
		log.Print("goGuard: credential store unavailable during registration")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if exists {
		e.metricInc(MetricRegisterConflict)
		return nil, ErrAccountExists
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
	}

	now := time.Now()
	p, err := e.store.Create(ctx, &Principal{
		Key:          req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: hash,
		Active:       true,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The store may detect a concurrent registration for the same key.
		if errors.Is(err, ErrAccountExists) {
			e.metricInc(MetricRegisterConflict)
			return nil, ErrAccountExists
		}
		log.Print("goGuard: credential store unavailable during registration")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	resp, err := e.issuePair(p)
	if err != nil {
		return nil, err
	}
	e.metricInc(MetricRegisterSuccess)
	return resp, nil
}

// Refresh verifies a presented token and issues a fresh access+refresh
// pair from the LIVE principal record, so role changes and deactivation
// apply at refresh time. Access and refresh tokens differ by TTL only, so
// any structurally valid, unexpired token is accepted here.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if e == nil || e.tokens == nil || e.resolver == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Verify(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, ErrTokenInvalid
	}

	p, err := e.resolver.Resolve(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			log.Print("goGuard: credential store unavailable during refresh")
			return nil, err
		}
		e.metricInc(MetricRefreshFailure)
		return nil, ErrAuthenticationFailed
	}

	resp, err := e.issuePair(p)
	if err != nil {
		return nil, err
	}
	e.metricInc(MetricRefreshSuccess)
	return resp, nil
}

// Authenticate establishes the per-request SecurityContext from a bearer
// token string. Every failure mode (malformed or expired token, unknown
// subject, deactivated principal, unreachable store) downgrades to
// anonymous; this method never returns an error. Roles come from the live
// principal record, not from the token claims.
func (e *Engine) Authenticate(ctx context.Context, tokenStr string) SecurityContext {
	if e == nil || e.tokens == nil || e.resolver == nil || tokenStr == "" {
		return Anonymous()
	}

	claims, err := e.tokens.Verify(tokenStr)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		log.Print("goGuard: rejected bearer token")
		return Anonymous()
	}

	p, err := e.resolver.Resolve(ctx, claims.Subject)
	if err != nil {
		e.metricInc(MetricAnonymousDowngrade)
		if errors.Is(err, ErrStoreUnavailable) {
			log.Print("goGuard: credential store unavailable during authentication")
		}
		return Anonymous()
	}

	return SecurityContext{
		Key:           p.Key,
		Roles:         append([]string(nil), p.Roles...),
		Authenticated: true,
	}
}

// AdmitRequest records one attempt against the request's rate key and
// reports whether the request may proceed. The key is "user:<key>" for
// authenticated contexts and "ip:<sourceIP>" otherwise. Store failures
// resolve through the configured fail-open/fail-closed policy and are
// logged; the return value is always deterministic.
func (e *Engine) AdmitRequest(ctx context.Context, sc SecurityContext, sourceIP string) bool {
	if e == nil || e.limiter == nil {
		return true
	}

	d, err := e.limiter.Allow(ctx, rateKey(sc, sourceIP))
	if err != nil {
		if e.config.RateLimit.FailOpen {
			e.metricInc(MetricStoreFailOpen)
		} else {
			e.metricInc(MetricStoreFailClosed)
		}
		log.Print("goGuard: rate limit store unavailable, applying fail policy")
	}
	if !d.Allowed && !d.Degraded {
		e.metricInc(MetricRateLimitHit)
	}
	return d.Allowed
}

func rateKey(sc SecurityContext, sourceIP string) string {
	if sc.Authenticated {
		return "user:" + sc.Key
	}
	return "ip:" + sourceIP
}

func (e *Engine) issuePair(p *Principal) (*AuthResponse, error) {
	roles := append([]string(nil), p.Roles...)

	access, err := e.tokens.Issue(p.Key, roles, token.KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := e.tokens.Issue(p.Key, roles, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Email:        p.Key,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
	}, nil
}

// normalizeRoles deduplicates the requested role set, applies the default
// role when empty, and validates against AllowedRoles when configured.
func (e *Engine) normalizeRoles(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return []string{e.config.Account.DefaultRole}, nil
	}

	seen := make(map[string]struct{}, len(requested))
	roles := make([]string, 0, len(requested))
	for _, r := range requested {
		if r == "" {
			return nil, ErrRoleInvalid
		}
		if _, dup := seen[r]; dup {
			continue
		}
		if len(e.config.Account.AllowedRoles) > 0 {
			allowed := false
			for _, a := range e.config.Account.AllowedRoles {
				if a == r {
					allowed = true
					break
				}
			}
			if !allowed {
				return nil, ErrRoleInvalid
			}
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	return roles, nil
}
