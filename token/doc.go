// Package token issues and verifies the signed, self-contained bearer
// tokens that carry identity and role claims between requests.
//
// # Wire format
//
// Compact JWS (HS256) over registered claims plus:
//   - sub   — principal identity key
//   - roles — role-name list at issuance time
//   - jti   — per-issuance UUID nonce, so two tokens for the same subject
//     issued at the same instant are never identical
//
// Access and refresh tokens share this layout and are distinguished by TTL
// only.
//
// # Verification contract
//
// Verify is a pure function of the token bytes, the signing key, and the
// clock: no I/O, no shared mutable state, safe for unlimited concurrency.
// The algorithm is pinned to HS256; tokens carrying any other alg header
// are rejected before signature checking.
//
// # What this package must NOT do
//
//   - Look up principals (live resolution is the Resolver's job; claims
//     reflect issuance time only).
//   - Support key rotation. The signing key is process-wide and immutable;
//     this is a documented limitation.
package token
