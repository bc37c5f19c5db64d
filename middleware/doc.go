// Package middleware exposes the two HTTP request stages goGuard adds in
// front of application handlers: authentication, then rate limiting.
//
// # Pipeline
//
//	Authenticate → RateLimit → handler
//
//   - [Authenticate] establishes the per-request SecurityContext. It NEVER
//     rejects: public-prefix paths skip token inspection, and every token
//     or identity failure downgrades to anonymous. Authorization, if any,
//     belongs to the handler.
//   - [RateLimit] keys on the SecurityContext ("user:<key>") or the source
//     address ("ip:<addr>"), increments the shared counter, and
//     short-circuits with 429 when the window budget is exceeded.
//
// Handlers read the outcome with [goGuard.SecurityContextFrom].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication or throttling logic itself; all decisions are
// delegated to Engine.Authenticate and Engine.AdmitRequest.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to the Engine).
//   - Access Redis (the Engine handles I/O).
//   - Leak a SecurityContext across requests: the value lives on the
//     request's own context and nowhere else.
package middleware
