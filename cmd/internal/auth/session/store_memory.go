package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for dev mode and unit tests.
//
// Delete under the mutex gives the same at-most-one-success guarantee for
// concurrent rotations that the Postgres conditional DELETE provides.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]Record
}

// NewMemoryStore creates an empty in-memory refresh-token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

// Get loads a record by token hash.
func (s *MemoryStore) Get(_ context.Context, tokenHash string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[tokenHash]
	if !ok {
		return Record{}, ErrTokenNotFound
	}
	return rec, nil
}

// Put inserts a new record.
func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs[rec.TokenHash] = rec
	return nil
}

// Delete removes the record if present and reports whether it did.
func (s *MemoryStore) Delete(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[tokenHash]; !ok {
		return false, nil
	}
	delete(s.recs, tokenHash)
	return true, nil
}

// DeleteExpired garbage-collects expired records.
func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for hash, rec := range s.recs {
		if !rec.ExpiresAt.After(now) {
			delete(s.recs, hash)
			n++
		}
	}
	return n, nil
}

// Len reports the number of live records (test helper).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}
