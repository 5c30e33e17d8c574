package session

import "errors"

var (
	// ErrInvalidToken is returned when an access token fails signature or
	// structural verification, including algorithm or issuer mismatch.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when an access token is structurally valid
	// but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidCredentials is returned by Login for a missing user, an
	// inactive user, or a wrong password. One error for all three cases:
	// the reason must not leak to the client.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken is returned by Refresh for a missing, expired,
	// already-rotated, or orphaned (inactive owner) refresh token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidAccessToken is what Authenticate reports for any presented
	// access token that fails validation, expired or otherwise.
	ErrInvalidAccessToken = errors.New("invalid access token")

	// ErrTokenNotFound is the store-level sentinel for an absent record.
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
