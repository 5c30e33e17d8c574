package authapi

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserIDFromContext returns the authenticated user ID injected by
// RequireAuth or OptionalAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok && uid != ""
}

// RequireAuth guards mandatory-auth routes.
//
// A missing Authorization header fails with AUTH_REQUIRED; a presented but
// invalid bearer token fails with INVALID_ACCESS_TOKEN. Both are 401.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, codeAuthRequired, "authentication required")
			return
		}

		uid, err := h.sessions.Authenticate(tok, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeInvalidAccessToken, "invalid access token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	})
}

// OptionalAuth resolves the bearer token when present but lets anonymous
// requests through. A token that is presented and fails validation is still
// rejected: silently downgrading to anonymous would mask client bugs.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}

		uid, err := h.sessions.Authenticate(tok, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeInvalidAccessToken, "invalid access token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	})
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
