package goGuard

import (
	"errors"

	"github.com/MrEthical07/goGuard/internal/ratelimit"
	"github.com/MrEthical07/goGuard/password"
	"github.com/MrEthical07/goGuard/token"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goGuard APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  CredentialStore
	hasher PasswordHasher

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis supplies the shared counter store client. Required whenever
// rate limiting is enabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCredentialStore supplies the principal lookup/persistence
// collaborator. Always required.
func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithPasswordHasher overrides the default Argon2id hasher.
func (b *Builder) WithPasswordHasher(h PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires every component with its
// explicit collaborators, and returns a ready Engine. A Builder is
// single-use.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("credential store is required")
	}
	if b.config.RateLimit.Enabled && b.redis == nil {
		return nil, errors.New("redis client is required when rate limiting is enabled")
	}

	hasher := b.hasher
	if hasher == nil {
		var err error
		hasher, err = password.NewArgon2(password.DefaultConfig())
		if err != nil {
			return nil, err
		}
	}

	tokens, err := token.NewManager(token.Config{
		SigningKey: b.config.Token.SigningKey,
		AccessTTL:  b.config.Token.AccessTTL,
		RefreshTTL: b.config.Token.RefreshTTL,
		Issuer:     b.config.Token.Issuer,
		Leeway:     b.config.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	resolver, err := NewResolver(b.store)
	if err != nil {
		return nil, err
	}

	var limiter *ratelimit.Limiter
	if b.config.RateLimit.Enabled {
		limiter = ratelimit.New(b.redis, ratelimit.Config{
			Threshold:    b.config.RateLimit.Threshold,
			Window:       b.config.RateLimit.Window,
			KeyPrefix:    b.config.RateLimit.KeyPrefix,
			FailOpen:     b.config.RateLimit.FailOpen,
			StoreTimeout: b.config.RateLimit.StoreTimeout,
		})
	}

	b.built = true
	return &Engine{
		config:   b.config,
		tokens:   tokens,
		resolver: resolver,
		store:    b.store,
		hasher:   hasher,
		limiter:  limiter,
		metrics:  NewMetrics(b.config.Metrics.Enabled),
	}, nil
}
