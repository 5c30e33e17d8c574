package session

import (
	"context"
	"time"
)

// Record mirrors a campus.refresh_tokens row.
//
// TokenHash is the hex digest of the opaque token; the plain token is never
// persisted. ID is a surrogate ULID used only for logs and audit.
type Record struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store abstracts persistence for refresh-token records.
//
// Rotation safety rests entirely on Delete's conditional semantics: the
// delete must be atomic and report whether this caller removed the row.
// Two concurrent rotations of the same token then see exactly one true.
type Store interface {
	// Get loads a record by token hash. Returns ErrTokenNotFound when absent.
	Get(ctx context.Context, tokenHash string) (Record, error)

	// Put inserts a new record. Token hashes are unique.
	Put(ctx context.Context, rec Record) error

	// Delete removes the record if present and reports whether it did.
	// Idempotent: deleting an absent record returns (false, nil).
	Delete(ctx context.Context, tokenHash string) (bool, error)

	// DeleteExpired garbage-collects records whose expiry has passed.
	// Expired rows are already treated as invalid; this is hygiene only.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
