// Package password hashes and verifies login secrets with Argon2id.
//
// Hashes are encoded as PHC strings
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash) so parameters travel with
// the hash and verification works across configuration changes. Comparison
// is constant-time.
//
// The rest of goGuard treats these strings as opaque: the engine only sees
// the [goGuard.PasswordHasher] interface this package implements.
package password
