// Package password provides one-way password hashing for the campus backend.
//
// Hashing uses bcrypt (golang.org/x/crypto/bcrypt): each call salts freshly,
// the cost is embedded in the output, and digest comparison is constant-time.
//
// Verification fails closed: a malformed or truncated stored hash is reported
// as ErrInvalidHash, never as a panic, and callers must treat any failure as
// "credentials rejected" without distinguishing the reason to clients.
package password
