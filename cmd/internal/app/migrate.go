package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"campus/migrations"

	// database/sql driver used only for migrations; runtime queries go
	// through pgxpool.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies all pending schema migrations.
func RunMigrations(ctx context.Context, log Logger, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("migrate: open: %w", err)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate: version: %w", err)
	}

	log.Info("db.migrations.applied", "version", version)
	return nil
}
