package goGuard

import (
	"errors"
	"strings"
	"time"
)

// Config defines a public type used by goGuard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token     TokenConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Account   AccountConfig
	Redis     RedisConfig
	Metrics   MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by goGuard APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// SigningKey is loaded once and immutable for the process lifetime. Key
// rotation is a known limitation, not a configuration knob.
type TokenConfig struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

/*
====================================
AUTH CONFIG
====================================
*/

// AuthConfig defines a public type used by goGuard APIs.
//
// AuthConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Requests whose path matches any PublicPrefixes entry skip token
// inspection entirely and proceed anonymously.
type AuthConfig struct {
	PublicPrefixes []string
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by goGuard APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// FailOpen selects the policy applied when the counter store is
// unreachable: true admits the request, false rejects it. Either way the
// outcome is deterministic and logged; there is no uncaught-error default.
type RateLimitConfig struct {
	Enabled      bool
	Threshold    int
	Window       time.Duration
	KeyPrefix    string
	PathPrefixes []string
	FailOpen     bool
	StoreTimeout time.Duration
}

/*
====================================
ACCOUNT CONFIG
====================================
*/

// AccountConfig defines a public type used by goGuard APIs.
//
// AccountConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AccountConfig struct {
	DefaultRole  string
	AllowedRoles []string
}

/*
====================================
REDIS CONFIG
====================================
*/

// RedisConfig defines a public type used by goGuard APIs.
//
// RedisConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Consumed only by [LoadConfigFile] callers that construct their own
// client; [Builder.WithRedis] accepts any pre-built go-redis client.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goGuard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration used by the reference deployment:
// 15-minute access tokens, 7-day refresh tokens, 60 requests per minute per
// key on /api/ paths, fail-open throttling, ROLE_USER default role.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "goGuard",
			Leeway:     30 * time.Second,
		},
		Auth: AuthConfig{
			PublicPrefixes: []string{"/api/auth/"},
		},
		RateLimit: RateLimitConfig{
			Enabled:      true,
			Threshold:    60,
			Window:       time.Minute,
			KeyPrefix:    "rate_limit:",
			PathPrefixes: []string{"/api/"},
			FailOpen:     true,
			StoreTimeout: 2 * time.Second,
		},
		Account: AccountConfig{
			DefaultRole:  RoleUser,
			AllowedRoles: []string{RoleUser, RoleAdmin, RoleModerator},
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for internally inconsistent or
// insecure values. It is called by [Builder.Build]; direct callers only
// need it when constructing configs by hand.
func (c Config) Validate() error {
	if len(c.Token.SigningKey) < 32 {
		return errors.New("token signing key must be at least 32 bytes")
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Token.AccessTTL >= c.Token.RefreshTTL {
		return errors.New("access TTL must be shorter than refresh TTL")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}
	for _, p := range c.Auth.PublicPrefixes {
		if !strings.HasPrefix(p, "/") {
			return errors.New("public prefixes must start with /")
		}
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Threshold <= 0 {
			return errors.New("rate limit threshold must be positive")
		}
		if c.RateLimit.Window <= 0 {
			return errors.New("rate limit window must be positive")
		}
		if c.RateLimit.StoreTimeout <= 0 {
			return errors.New("rate limit store timeout must be positive")
		}
		for _, p := range c.RateLimit.PathPrefixes {
			if !strings.HasPrefix(p, "/") {
				return errors.New("rate limit path prefixes must start with /")
			}
		}
	}
	if c.Account.DefaultRole == "" {
		return errors.New("default role must not be empty")
	}
	if len(c.Account.AllowedRoles) > 0 {
		allowed := false
		for _, r := range c.Account.AllowedRoles {
			if r == c.Account.DefaultRole {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.New("default role must be in allowed roles")
		}
	}
	return nil
}
