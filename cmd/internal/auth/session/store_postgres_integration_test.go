package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// Integration tests are enabled when CAMPUS_DATABASE_URL is set.
// In non-CI runs, unreachable Postgres skips these tests to keep local runs fast.

func integrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("CAMPUS_DATABASE_URL")
	if dbURL == "" {
		t.Skip("CAMPUS_DATABASE_URL is not set; skipping Postgres integration test")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Skipf("pgxpool.New: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Skipf("postgres unreachable: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func mustCreateUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, userID string) {
	t.Helper()

	now := time.Now().UTC()
	_, err := pool.Exec(ctx, `
		INSERT INTO campus.users (id, password_hash, active, created_at, updated_at)
		VALUES ($1, 'x', TRUE, $2, $2)
	`, userID, now)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM campus.refresh_tokens WHERE user_id = $1`, userID)
		_, _ = pool.Exec(ctx, `DELETE FROM campus.users WHERE id = $1`, userID)
	})
}

func TestPostgresStore_PutGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := integrationPool(t)
	store := NewPostgresStore(pool)

	userID := "it-" + ulid.Make().String()
	mustCreateUser(ctx, t, pool, userID)

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := Record{
		ID:        ulid.Make().String(),
		UserID:    userID,
		TokenHash: HashForTest("it-token-" + userID),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, rec.TokenHash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != userID {
		t.Fatalf("unexpected user id %q", got.UserID)
	}

	deleted, err := store.Delete(ctx, rec.TokenHash)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatalf("expected first delete to win")
	}

	deleted, err = store.Delete(ctx, rec.TokenHash)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatalf("expected second delete to be a no-op")
	}

	if _, err := store.Get(ctx, rec.TokenHash); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound after delete, got %v", err)
	}
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := integrationPool(t)
	store := NewPostgresStore(pool)

	userID := "it-" + ulid.Make().String()
	mustCreateUser(ctx, t, pool, userID)

	now := time.Now().UTC()
	for i, exp := range []time.Time{now.Add(-time.Hour), now.Add(time.Hour)} {
		if err := store.Put(ctx, Record{
			ID:        ulid.Make().String(),
			UserID:    userID,
			TokenHash: HashForTest(userID + string(rune('a'+i))),
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: exp,
		}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	if _, err := store.DeleteExpired(ctx, now); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}

	// The live record must survive.
	if _, err := store.Get(ctx, HashForTest(userID+"b")); err != nil {
		t.Fatalf("expected live record to survive, got %v", err)
	}
}

// HashForTest exposes refresh-token hashing for integration fixtures.
func HashForTest(s string) string { return hashRefreshTokenHex(s) }
