// Package ratelimit implements the shared fixed-window request counter
// backed by Redis.
//
// # Window semantics
//
// One counter per rate key ("user:<key>" or "ip:<addr>", namespaced by the
// configured prefix). The increment and the window start are a single Lua
// script — INCR plus PEXPIRE-if-first — so concurrent first requests for a
// fresh key can never observe a counter without an expiry. The counter
// advances for rejected requests too: it counts attempts, not admissions.
//
// # Failure semantics
//
// Every store error resolves through the configured fail-open/fail-closed
// policy. Allow always returns a usable Decision; the error value exists
// only so callers can log the degradation.
//
// # What this package must NOT do
//
//   - Derive rate keys from requests (the middleware owns key derivation).
//   - Be imported outside the goGuard module.
package ratelimit
