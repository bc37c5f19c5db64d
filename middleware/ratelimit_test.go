package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/token"
)

func limitedPipeline(engine *goGuard.Engine, handled *atomic.Int64) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	return Authenticate(engine)(RateLimit(engine)(inner))
}

func get(handler http.Handler, path, remoteAddr, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestThresholdAdmitsThenThrottles(t *testing.T) {
	engine, _, _ := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.Threshold = 60
	})
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)

	for i := 1; i <= 60; i++ {
		rec := get(handler, "/api/orders", "10.0.0.1:1234", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d returned %d, want 200", i, rec.Code)
		}
	}

	rec := get(handler, "/api/orders", "10.0.0.1:1234", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("61st request returned %d, want 429", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != throttledBody {
		t.Errorf("429 body = %q, want %q", body, throttledBody)
	}
	if handled.Load() != 60 {
		t.Errorf("handler ran %d times, want 60 (throttled request never reaches it)", handled.Load())
	}
}

func TestWindowExpiryAdmitsAgain(t *testing.T) {
	engine, _, mr := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.Threshold = 1
	})
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)

	if rec := get(handler, "/api/orders", "10.0.0.1:1234", ""); rec.Code != http.StatusOK {
		t.Fatalf("first request returned %d", rec.Code)
	}
	if rec := get(handler, "/api/orders", "10.0.0.1:1234", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request returned %d, want 429", rec.Code)
	}

	mr.FastForward(engine.Config().RateLimit.Window * 2)

	if rec := get(handler, "/api/orders", "10.0.0.1:1234", ""); rec.Code != http.StatusOK {
		t.Errorf("request after window expiry returned %d, want 200", rec.Code)
	}
}

func TestUnprotectedPathBypassesLimiter(t *testing.T) {
	engine, _, _ := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.Threshold = 1
	})
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)

	for i := 0; i < 5; i++ {
		if rec := get(handler, "/healthz", "10.0.0.1:1234", ""); rec.Code != http.StatusOK {
			t.Fatalf("unprotected request %d returned %d", i, rec.Code)
		}
	}
	if handled.Load() != 5 {
		t.Errorf("handler ran %d times, want 5", handled.Load())
	}
}

func TestAuthenticatedAndAnonymousKeysAreIndependent(t *testing.T) {
	engine, store, _ := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.Threshold = 1
	})
	store.Put(activePrincipal("alice@example.com", goGuard.RoleUser))
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)

	raw := issueToken(t, "alice@example.com", []string{goGuard.RoleUser}, token.KindAccess)

	// Exhaust alice's identity budget from one address.
	get(handler, "/api/orders", "10.0.0.1:1234", "Bearer "+raw)
	if rec := get(handler, "/api/orders", "10.0.0.1:1234", "Bearer "+raw); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("alice's second request returned %d, want 429", rec.Code)
	}

	// Anonymous traffic from the same address keys on ip:, not user:.
	if rec := get(handler, "/api/orders", "10.0.0.1:1234", ""); rec.Code != http.StatusOK {
		t.Errorf("anonymous request from same address returned %d, want independent budget", rec.Code)
	}
}

func TestThrottlingIsIndependentOfAuthenticationOutcome(t *testing.T) {
	engine, _, _ := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.Threshold = 1
	})
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)

	// Invalid tokens still consume the anonymous ip: budget.
	get(handler, "/api/orders", "10.0.0.1:1234", "Bearer garbage")
	if rec := get(handler, "/api/orders", "10.0.0.1:1234", "Bearer garbage"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second invalid-token request returned %d, want 429", rec.Code)
	}
}

func TestStoreDownFailOpenAdmits(t *testing.T) {
	engine, _, mr := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.FailOpen = true
	})
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)
	mr.Close()

	rec := get(handler, "/api/orders", "10.0.0.1:1234", "")
	if rec.Code != http.StatusOK {
		t.Errorf("fail-open request returned %d, want 200", rec.Code)
	}
	if got := engine.MetricsSnapshot().Counters[goGuard.MetricStoreFailOpen]; got != 1 {
		t.Errorf("fail-open counter = %d, want 1", got)
	}
}

func TestStoreDownFailClosedRejects(t *testing.T) {
	engine, _, mr := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.FailOpen = false
	})
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)
	mr.Close()

	rec := get(handler, "/api/orders", "10.0.0.1:1234", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("fail-closed request returned %d, want 429", rec.Code)
	}
	if handled.Load() != 0 {
		t.Errorf("handler ran %d times under fail-closed outage, want 0", handled.Load())
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	engine, _, _ := newTestEngine(t, func(c *goGuard.Config) {
		c.RateLimit.Enabled = false
	})
	var handled atomic.Int64
	handler := limitedPipeline(engine, &handled)

	for i := 0; i < 100; i++ {
		if rec := get(handler, "/api/orders", "10.0.0.1:1234", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d returned %d with limiter disabled", i, rec.Code)
		}
	}
}
