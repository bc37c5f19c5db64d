package middleware

import (
	"net/http"

	goGuard "github.com/MrEthical07/goGuard"
)

// throttledBody matches the reference deployment's plain-text 429 payload.
const throttledBody = "Too many requests. Try again later."

// RateLimit returns the middleware that enforces the shared request
// budget. It must run after [Authenticate] so authenticated requests key
// on identity rather than source address. Paths outside the configured
// protected prefixes pass through untouched. A throttled request never
// reaches the handler.
func RateLimit(engine *goGuard.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := engine.Config().RateLimit
			if !cfg.Enabled || !matchesPrefix(r.URL.Path, cfg.PathPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			sc := goGuard.SecurityContextFrom(ctx)
			ip := goGuard.ClientIPFromContext(ctx)
			if ip == "" {
				ip = clientIP(r)
			}

			if !engine.AdmitRequest(ctx, sc, ip) {
				http.Error(w, throttledBody, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
