package identity

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for dev mode and unit tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryStore creates an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

// GetByID loads a user regardless of active state.
func (s *MemoryStore) GetByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[NormalizeUserID(id)]
	if !ok {
		return User{}, OpError{Op: "identity.GetByID", Kind: ErrNotFound}
	}
	return u, nil
}

// GetActiveByID loads a user and filters active = true.
func (s *MemoryStore) GetActiveByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[NormalizeUserID(id)]
	if !ok || !u.Active {
		return User{}, OpError{Op: "identity.GetActiveByID", Kind: ErrNotFound}
	}
	return u, nil
}

// Create inserts a new active user.
func (s *MemoryStore) Create(_ context.Context, in CreateUserInput) (User, error) {
	id := NormalizeUserID(in.ID)
	if id == "" || in.PasswordHash == "" {
		return User{}, OpError{Op: "identity.Create", Kind: ErrInvalidInput}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; exists {
		return User{}, ConflictError{Op: "identity.Create", Field: "user_id"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	u := User{
		ID:           id,
		PasswordHash: in.PasswordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[id] = u
	return u, nil
}

// SetActive flips the active flag.
func (s *MemoryStore) SetActive(_ context.Context, id string, active bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeUserID(id)
	u, ok := s.users[key]
	if !ok {
		return OpError{Op: "identity.SetActive", Kind: ErrNotFound}
	}
	u.Active = active
	u.UpdatedAt = now
	s.users[key] = u
	return nil
}
