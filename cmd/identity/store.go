package identity

import (
	"context"
	"time"
)

// User is the canonical security principal of the campus backend.
//
// ID is the normalized campus account ID the user logs in with; it is
// unique and immutable. Inactive users fail authentication everywhere.
type User struct {
	ID           string
	PasswordHash string
	Active       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput describes a user registration request.
// PasswordHash must already be hashed; the store never sees plaintext.
// Timestamps derive from Now at the moment of creation, never earlier.
type CreateUserInput struct {
	ID           string
	PasswordHash string
	Now          time.Time
}

// Store is the user persistence boundary consumed by the session core.
type Store interface {
	// GetByID loads a user regardless of active state.
	// Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (User, error)

	// GetActiveByID loads a user and additionally filters active = true.
	// Absent and inactive are indistinguishable: both return ErrNotFound.
	GetActiveByID(ctx context.Context, id string) (User, error)

	// Create inserts a new active user.
	// A duplicate ID maps to ConflictError{Field: "user_id"}.
	Create(ctx context.Context, in CreateUserInput) (User, error)

	// SetActive flips the active flag (account deactivation/reactivation).
	// Returns ErrNotFound when the user does not exist.
	SetActive(ctx context.Context, id string, active bool, now time.Time) error
}
