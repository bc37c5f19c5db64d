package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrStoreUnavailable reports that the counter store could not be
	// reached and the fail policy decided the outcome.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)

// incrWindowScript increments the counter and, when this call created the
// key, starts the window in the same atomic step. Two separate INCR and
// EXPIRE round-trips would race under concurrent first-requests and could
// leave a counter with no expiry.
var incrWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Config holds counter tuning parameters.
type Config struct {
	Threshold    int
	Window       time.Duration
	KeyPrefix    string
	FailOpen     bool
	StoreTimeout time.Duration
}

// Limiter enforces a fixed-window request budget per rate key using a
// shared Redis counter.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	// Count is the post-increment attempt count within the current
	// window; zero when the store was unreachable.
	Count int64
	// Degraded is true when the store was unreachable and the fail
	// policy, not the counter, decided Allowed.
	Degraded bool
}

// New creates a Limiter backed by the given Redis client.
func New(client redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  client,
		config: cfg,
	}
}

// Allow records one attempt for key and reports whether the request may
// proceed. The increment happens whether or not the request is admitted.
// Store failures never escape as raw errors: the Decision always reflects
// the configured fail policy, and the returned error exists for logging.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.config.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.StoreTimeout)
		defer cancel()
	}

	windowMillis := strconv.FormatInt(l.config.Window.Milliseconds(), 10)
	count, err := incrWindowScript.Run(ctx, l.redis, []string{l.config.KeyPrefix + key}, windowMillis).Int64()
	if err != nil {
		return Decision{
			Allowed:  l.config.FailOpen,
			Degraded: true,
		}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return Decision{
		Allowed: count <= int64(l.config.Threshold),
		Count:   count,
	}, nil
}

// Count returns the current attempt count for key without incrementing.
// Missing keys read as zero.
func (l *Limiter) Count(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Get(ctx, l.config.KeyPrefix+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

// Reset clears the counter for key. Intended for administrative tooling
// and tests.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, l.config.KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
