package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus/cmd/identity"

	"github.com/oklog/ulid/v2"
)

// Service implements the high-level session operations for the campus backend.
//
// It verifies credentials, issues access + refresh token pairs, performs
// single-use refresh rotation, and revokes refresh tokens on logout. All
// collaborators are injected at construction; there is no ambient state.
type Service struct {
	cfg    Config
	tokens AccessTokenManager
	users  identity.Store
	store  Store

	// dummyHash absorbs the bcrypt cost when the user is missing, so login
	// latency does not reveal whether the account exists.
	dummyHash string
	verify    PasswordVerifier
}

// PasswordVerifier abstracts password hash verification.
// (true, nil) means match; any error means the stored hash is unusable.
type PasswordVerifier interface {
	Verify(encodedHash, password string) (bool, error)
}

// Issued is the result of issuing or rotating a session.
// It includes a short-lived access token and an opaque refresh token.
type Issued struct {
	UserID       string
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// NewService constructs a Service with the provided configuration, stores,
// token manager, and password verifier.
func NewService(cfg Config, users identity.Store, store Store, tokens AccessTokenManager, verify PasswordVerifier) *Service {
	svc := &Service{
		cfg:    cfg,
		tokens: tokens,
		users:  users,
		store:  store,
		verify: verify,
	}

	if hasher, ok := verify.(interface{ Hash(string) (string, error) }); ok {
		if h, err := hasher.Hash("dummy-password-for-timing-only"); err == nil {
			svc.dummyHash = h
		}
	}

	return svc
}

// Login verifies credentials and issues a fresh token pair.
//
// A missing user, an inactive user, and a wrong password all fail with the
// same ErrInvalidCredentials; nothing about the reason reaches the caller.
func (s *Service) Login(ctx context.Context, now time.Time, userID, password string) (Issued, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return Issued{}, ErrInvalidCredentials
	}

	user, err := s.users.GetActiveByID(ctx, userID)
	if err != nil {
		if identity.IsNotFound(err) {
			// Timing resistance: run a dummy verify when the user is missing.
			if s.dummyHash != "" {
				_, _ = s.verify.Verify(s.dummyHash, password)
			}
			return Issued{}, ErrInvalidCredentials
		}
		return Issued{}, fmt.Errorf("session.Login: %w", err)
	}

	ok, err := s.verify.Verify(user.PasswordHash, password)
	if err != nil || !ok {
		// A malformed stored hash fails closed as bad credentials.
		return Issued{}, ErrInvalidCredentials
	}

	return s.issue(ctx, now, user.ID)
}

// Refresh exchanges a refresh token for a fresh token pair (single-use
// rotation).
//
// The presented record is deleted before its replacement is inserted; the
// delete is conditional, so a concurrent refresh with the same token loses
// the race and observes the token as already gone.
func (s *Service) Refresh(ctx context.Context, now time.Time, refreshTokenPlain string) (Issued, error) {
	refreshTokenPlain = strings.TrimSpace(refreshTokenPlain)
	// Basic sanity bounds to avoid pathological inputs.
	if refreshTokenPlain == "" || len(refreshTokenPlain) > 4096 {
		return Issued{}, ErrInvalidRefreshToken
	}

	// Hash in-memory; the plain token never reaches the store.
	tokenHash := hashRefreshTokenHex(refreshTokenPlain)

	rec, err := s.store.Get(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Issued{}, ErrInvalidRefreshToken
		}
		return Issued{}, fmt.Errorf("session.Refresh: %w", err)
	}

	if !rec.ExpiresAt.After(now) {
		// Lazy expiry: the row stays invalid either way, deleting it is hygiene.
		_, _ = s.store.Delete(ctx, tokenHash)
		return Issued{}, ErrInvalidRefreshToken
	}

	// The owning account must still be active. Indistinguishable from a
	// missing token so account state does not leak.
	if _, err := s.users.GetActiveByID(ctx, rec.UserID); err != nil {
		if identity.IsNotFound(err) {
			return Issued{}, ErrInvalidRefreshToken
		}
		return Issued{}, fmt.Errorf("session.Refresh: %w", err)
	}

	// Conditional delete is the rotation commit point: exactly one of any
	// set of concurrent refreshes with this token gets deleted=true.
	deleted, err := s.store.Delete(ctx, tokenHash)
	if err != nil {
		return Issued{}, fmt.Errorf("session.Refresh: %w", err)
	}
	if !deleted {
		return Issued{}, ErrInvalidRefreshToken
	}

	return s.issue(ctx, now, rec.UserID)
}

// Logout deletes the matching refresh-token record if present.
// Idempotent: absence is not an error.
func (s *Service) Logout(ctx context.Context, refreshTokenPlain string) error {
	refreshTokenPlain = strings.TrimSpace(refreshTokenPlain)
	if refreshTokenPlain == "" {
		return nil
	}
	if _, err := s.store.Delete(ctx, hashRefreshTokenHex(refreshTokenPlain)); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	return nil
}

// Authenticate verifies an access token and returns the subject user ID.
//
// This is a pure, stateless check: it never touches the user or refresh
// stores. Every validation failure, expired or otherwise, surfaces as
// ErrInvalidAccessToken.
func (s *Service) Authenticate(tokenString string, now time.Time) (string, error) {
	claims, err := s.tokens.Verify(tokenString, now)
	if err != nil {
		return "", ErrInvalidAccessToken
	}
	return claims.UserID, nil
}

// PurgeExpired garbage-collects expired refresh-token records.
// Optional hygiene; expired rows are never treated as valid regardless.
func (s *Service) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.store.DeleteExpired(ctx, now)
}

func (s *Service) issue(ctx context.Context, now time.Time, userID string) (Issued, error) {
	refreshPlain, refreshHash, err := newOpaqueRefreshToken(s.cfg.RefreshTokenBytes)
	if err != nil {
		return Issued{}, err
	}
	refreshExp := now.Add(s.cfg.RefreshTokenTTL)

	if err := s.store.Put(ctx, Record{
		ID:        ulid.Make().String(),
		UserID:    userID,
		TokenHash: refreshHash,
		CreatedAt: now,
		ExpiresAt: refreshExp,
	}); err != nil {
		return Issued{}, fmt.Errorf("session.issue: %w", err)
	}

	accessToken, accessExp, err := s.tokens.Issue(userID, now)
	if err != nil {
		return Issued{}, err
	}

	return Issued{
		UserID:       userID,
		AccessToken:  accessToken,
		AccessExp:    accessExp,
		RefreshToken: refreshPlain,
		RefreshExp:   refreshExp,
	}, nil
}
