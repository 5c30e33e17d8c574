// Package authapi wires the campus authentication endpoints to the session
// service and the user store. It owns transport concerns only: JSON binding,
// the refresh-token cookie, and bearer extraction. All validity decisions
// live in cmd/internal/auth/session.
package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"campus/cmd/identity"
	"campus/cmd/internal/auth/session"
	"campus/cmd/security/password"
)

// Handler wires HTTP auth endpoints to the identity and session services.
type Handler struct {
	log *slog.Logger
	cfg Config

	sessions *session.Service
	sessCfg  session.Config
	users    identity.Store
	hasher   password.Config
}

// NewHandler constructs an auth Handler with explicit dependencies.
func NewHandler(log *slog.Logger, cfg Config, sessCfg session.Config, sessions *session.Service, users identity.Store, hasher password.Config) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if sessions == nil {
		return nil, errors.New("authapi: nil session service")
	}
	if users == nil {
		return nil, errors.New("authapi: nil user store")
	}

	return &Handler{
		log:      log,
		cfg:      cfg,
		sessions: sessions,
		sessCfg:  sessCfg,
		users:    users,
		hasher:   hasher,
	}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/auth/users", h.handleRegister)
	mux.HandleFunc("/auth/users/token", h.handleLogin)
	mux.HandleFunc("/auth/users/refresh", h.handleRefresh)
	mux.HandleFunc("/auth/users/logout", h.handleLogout)
	mux.Handle("/auth/users/me", h.RequireAuth(http.HandlerFunc(h.handleMe)))
}

// SessionService returns the underlying session service.
func (h *Handler) SessionService() *session.Service {
	if h == nil {
		return nil
	}
	return h.sessions
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	userID := identity.NormalizeUserID(req.UserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "user_id is required")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		// Policy violations only; the hash itself cannot fail on valid input.
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "password does not meet policy")
		return
	}

	now := time.Now().UTC()
	user, err := h.users.Create(r.Context(), identity.CreateUserInput{
		ID:           userID,
		PasswordHash: hash,
		Now:          now,
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			countOp("register", "conflict")
			writeError(w, http.StatusConflict, codeUserAlreadyExists, "user already exists")
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid input")
		default:
			h.log.Error("auth.register.fail", "err", err)
			writeError(w, http.StatusInternalServerError, codeServerError, "internal error")
		}
		return
	}

	countOp("register", "success")
	writeJSON(w, http.StatusCreated, userResponse{
		UserID:    user.ID,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	now := time.Now().UTC()
	issued, err := h.sessions.Login(r.Context(), now, req.UserID, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			countOp("login", "invalid_credentials")
			writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid credentials")
			return
		}
		h.log.Error("auth.login.fail", "err", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "internal error")
		return
	}

	countOp("login", "success")
	h.setRefreshCookie(w, issued.RefreshToken, h.sessCfg.RefreshTokenTTL)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: issued.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(issued.AccessExp.Sub(now).Seconds()),
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	refreshToken, ok := h.refreshTokenFromCookie(r)
	if !ok {
		countOp("refresh", "missing_cookie")
		writeError(w, http.StatusUnauthorized, codeInvalidRefreshToken, "invalid refresh token")
		return
	}

	now := time.Now().UTC()
	issued, err := h.sessions.Refresh(r.Context(), now, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			countOp("refresh", "invalid_refresh_token")
			writeError(w, http.StatusUnauthorized, codeInvalidRefreshToken, "invalid refresh token")
			return
		}
		h.log.Error("auth.refresh.fail", "err", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "internal error")
		return
	}

	countOp("refresh", "success")
	h.setRefreshCookie(w, issued.RefreshToken, h.sessCfg.RefreshTokenTTL)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: issued.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(issued.AccessExp.Sub(now).Seconds()),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Logout succeeds regardless of prior validity; the cookie is always
	// cleared so a stale client converges to the logged-out state.
	if refreshToken, ok := h.refreshTokenFromCookie(r); ok {
		if err := h.sessions.Logout(r.Context(), refreshToken); err != nil {
			h.log.Error("auth.logout.fail", "err", err)
			writeError(w, http.StatusInternalServerError, codeServerError, "internal error")
			return
		}
	}

	countOp("logout", "success")
	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeAuthRequired, "authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, codeInvalidAccessToken, "invalid access token")
			return
		}
		h.log.Error("auth.me.fail", "err", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: userResponse{
		UserID:    user.ID,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}})
}
