package middleware

import (
	"net"
	"net/http"
	"strings"

	goGuard "github.com/MrEthical07/goGuard"
)

// Authenticate returns the middleware that establishes the request's
// SecurityContext. Evaluated once per request, before any handler logic:
//
//  1. Public-prefix paths proceed anonymously with zero token inspection.
//  2. A missing or malformed Authorization header is not an error; the
//     request proceeds anonymously.
//  3. Token verification and live principal resolution happen inside
//     Engine.Authenticate; every failure there downgrades to anonymous.
//
// The SecurityContext is attached to this request's context only.
func Authenticate(engine *goGuard.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := goGuard.WithClientIP(r.Context(), clientIP(r))

			if matchesPrefix(r.URL.Path, engine.Config().Auth.PublicPrefixes) {
				ctx = goGuard.WithSecurityContext(ctx, goGuard.Anonymous())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			sc := goGuard.Anonymous()
			if tok, ok := bearerToken(r.Header.Get("Authorization")); ok {
				sc = engine.Authenticate(ctx, tok)
			}

			ctx = goGuard.WithSecurityContext(ctx, sc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tok := value[len(bearer):]
	if tok == "" {
		return "", false
	}

	return tok, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
