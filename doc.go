// Package goGuard secures HTTP APIs with stateless signed bearer tokens and
// Redis-backed request throttling.
//
// The package is designed for concurrent server workloads: Engine methods and
// both middlewares are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goGuard is the public surface. It exposes [Engine], [Builder], [Config],
// [Resolver], and value types (Principal, SecurityContext, AuthResponse).
// Token encoding lives in token/, password hashing in password/, HTTP
// adapters in middleware/. Counter mechanics and metrics live under
// internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients or counter key layouts in its public API.
//   - Persist principals or roles. [CredentialStore] is the integration
//     point; storage is the caller's concern.
//   - Reject a request during authentication. Token and identity failures
//     downgrade to an anonymous [SecurityContext]; only the rate limiter
//     short-circuits requests.
//
// # Concurrency contract
//
// Token verification is a pure function of the token bytes, the signing key,
// and the clock: no locks, no I/O. The only shared mutable state is the set
// of Redis counters, advanced with a single atomic increment-and-fetch per
// request. SecurityContext values are scoped to one request's context and
// never outlive it.
package goGuard
