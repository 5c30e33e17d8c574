package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (campus.refresh_tokens).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed refresh-token store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get loads a record by token hash.
func (s *PostgresStore) Get(ctx context.Context, tokenHash string) (Record, error) {
	var rec Record

	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, created_at, expires_at
		FROM campus.refresh_tokens
		WHERE token_hash = $1
	`, tokenHash).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TokenHash,
		&rec.CreatedAt,
		&rec.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrTokenNotFound
	}
	if err != nil {
		return Record{}, err
	}

	return rec, nil
}

// Put inserts a new record.
func (s *PostgresStore) Put(ctx context.Context, rec Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO campus.refresh_tokens (id, user_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.ID, rec.UserID, rec.TokenHash, rec.CreatedAt, rec.ExpiresAt)
	return err
}

// Delete removes the record if present and reports whether it did.
//
// A single conditional DELETE is the rotation atomicity primitive: of two
// concurrent deletes of the same row, Postgres lets exactly one report
// RowsAffected() == 1.
func (s *PostgresStore) Delete(ctx context.Context, tokenHash string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM campus.refresh_tokens
		WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteExpired garbage-collects expired records.
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM campus.refresh_tokens
		WHERE expires_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
