package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (campus.users).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed user store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("identity: nil db pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// GetByID loads a user row by normalized ID.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, error) {
	return s.get(ctx, "identity.GetByID", id, false)
}

// GetActiveByID loads a user row by normalized ID, filtering active = true.
func (s *PostgresStore) GetActiveByID(ctx context.Context, id string) (User, error) {
	return s.get(ctx, "identity.GetActiveByID", id, true)
}

func (s *PostgresStore) get(ctx context.Context, op, id string, activeOnly bool) (User, error) {
	q := `
		SELECT id, password_hash, active, created_at, updated_at
		FROM campus.users
		WHERE id = $1
	`
	if activeOnly {
		q += ` AND active`
	}

	var u User
	err := s.pool.QueryRow(ctx, q, NormalizeUserID(id)).Scan(
		&u.ID,
		&u.PasswordHash,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Create inserts a new active user row.
func (s *PostgresStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	id := NormalizeUserID(in.ID)
	if id == "" || in.PasswordHash == "" {
		return User{}, OpError{Op: "identity.Create", Kind: ErrInvalidInput}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO campus.users (id, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, TRUE, $3, $3)
	`, id, in.PasswordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ConflictError{Op: "identity.Create", Field: "user_id"}
		}
		return User{}, err
	}

	return User{
		ID:           id,
		PasswordHash: in.PasswordHash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetActive flips the active flag for a user.
func (s *PostgresStore) SetActive(ctx context.Context, id string, active bool, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE campus.users
		SET active = $2, updated_at = $3
		WHERE id = $1
	`, NormalizeUserID(id), active, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: "identity.SetActive", Kind: ErrNotFound}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
