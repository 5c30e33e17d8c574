// Package session implements the campus backend's authentication lifecycle:
// access-token issuance, refresh-token rotation, and revocation.
//
// Access tokens are short-lived JWTs (HS256) and are fully stateless:
// validity is determined by signature and expiry alone. Refresh tokens are
// opaque random strings, stored hashed in Postgres (HMAC-SHA256 when
// CAMPUS_TOKEN_HMAC_KEY is set; otherwise SHA-256 for dev/back-compat) and
// are single-use: each refresh deletes the presented record and inserts a
// fresh one. The delete is conditional, so of two concurrent refreshes with
// the same token at most one succeeds.
//
// Transport (HTTP cookie handling, bearer extraction) is intentionally out
// of scope here; see cmd/internal/auth/api.
package session
