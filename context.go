package goGuard

import "context"

type clientIPContextKey struct{}
type securityContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The rate limiter
// uses it to key anonymous requests; it also appears in absorbed-failure
// log lines.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// ClientIPFromContext returns the IP previously attached with
// [WithClientIP], or "" when none is present.
func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

// WithSecurityContext attaches the per-request authentication outcome to
// ctx. The authentication middleware is the only writer; the value is never
// shared across requests, so a pooled worker's next request always starts
// anonymous.
func WithSecurityContext(ctx context.Context, sc SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sc)
}

// SecurityContextFrom returns the request's SecurityContext. Requests that
// never passed through the authentication middleware read as anonymous.
func SecurityContextFrom(ctx context.Context) SecurityContext {
	if ctx == nil {
		return Anonymous()
	}

	sc, ok := ctx.Value(securityContextKey{}).(SecurityContext)
	if !ok {
		return Anonymous()
	}
	return sc
}
