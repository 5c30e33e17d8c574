// Package app wires the campus auth server runtime: config, logging, the
// HTTP surface, and the choice between Postgres-backed and in-memory stores.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campus/cmd/identity"
	authapi "campus/cmd/internal/auth/api"
	"campus/cmd/internal/auth/session"
	"campus/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App is the campus auth server runtime.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	sessions *session.Service
	auth     *authapi.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	pwCfg, err := password.FromEnv()
	if err != nil {
		return nil, err
	}
	authCfg := authapi.LoadConfigFromEnv()

	var (
		pool      *pgxpool.Pool
		dbEnabled bool
		users     identity.Store
		sessStore session.Store
	)

	if cfg.DatabaseURL != "" {
		ctx := context.Background()

		if cfg.MigrateOnStart {
			if err := RunMigrations(ctx, log, cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}

		pool, err = NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}

		pgUsers, err := identity.NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		users = pgUsers
		sessStore = session.NewPostgresStore(pool)
		dbEnabled = true
		log.Info("db.enabled.postgres_store")
	} else {
		users = identity.NewMemoryStore()
		sessStore = session.NewMemoryStore()
		log.Info("db.disabled.inmemory_store")
	}

	tokens, err := session.NewJWTManager(sessCfg)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	sessions := session.NewService(sessCfg, users, sessStore, tokens, pwCfg)

	auth, err := authapi.NewHandler(log, authCfg, sessCfg, sessions, users, pwCfg)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		dbPool:    pool,
		dbEnabled: dbEnabled,
		sessions:  sessions,
		auth:      auth,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.auth)

	var handler http.Handler = mux
	handler = WithSecurityHeaders(handler)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	if a.cfg.TokenPurgeInterval > 0 {
		go a.purgeLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server.stopped")
	return nil
}

// purgeLoop periodically deletes expired refresh-token records. Expired rows
// are never valid regardless; this only keeps the table from growing.
func (a *App) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.TokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.sessions.PurgeExpired(ctx, time.Now().UTC())
			if err != nil {
				a.log.Warn("token.purge.fail", "err", err)
				continue
			}
			if n > 0 {
				a.log.Info("token.purge", "deleted", n)
			}
		}
	}
}
