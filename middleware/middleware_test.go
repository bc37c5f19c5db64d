package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/token"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

// memStore is a mutex-guarded in-memory CredentialStore for tests.
type memStore struct {
	mu         sync.RWMutex
	principals map[string]goGuard.Principal
}

func newMemStore() *memStore {
	return &memStore{principals: make(map[string]goGuard.Principal)}
}

func (s *memStore) Put(p goGuard.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principals[p.Key] = p
}

func (s *memStore) FindByKey(_ context.Context, key string) (*goGuard.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.principals[key]
	if !ok {
		return nil, goGuard.ErrPrincipalNotFound
	}
	return &p, nil
}

func (s *memStore) ExistsByKey(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.principals[key]
	return ok, nil
}

func (s *memStore) Create(_ context.Context, p *goGuard.Principal) (*goGuard.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.principals[p.Key]; ok {
		return nil, goGuard.ErrAccountExists
	}
	s.principals[p.Key] = *p
	return p, nil
}

func newTestEngine(t *testing.T, mutate func(*goGuard.Config)) (*goGuard.Engine, *memStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := goGuard.DefaultConfig()
	cfg.Token.SigningKey = testSigningKey
	cfg.RateLimit.StoreTimeout = 200 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}

	store := newMemStore()
	engine, err := goGuard.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithCredentialStore(store).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}

	return engine, store, mr
}

// issueToken signs a token outside the engine, with the same key the
// engine verifies against.
func issueToken(t *testing.T, subject string, roles []string, kind token.Kind) string {
	t.Helper()

	m, err := token.NewManager(token.Config{
		SigningKey: testSigningKey,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "goGuard",
	})
	if err != nil {
		t.Fatalf("token manager failed: %v", err)
	}
	raw, err := m.Issue(subject, roles, kind)
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}
	return raw
}

func activePrincipal(key string, roles ...string) goGuard.Principal {
	return goGuard.Principal{
		Key:       key,
		FirstName: "Test",
		LastName:  "Principal",
		Active:    true,
		Roles:     roles,
	}
}
