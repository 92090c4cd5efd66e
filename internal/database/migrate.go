package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate applies all pending migrations through the pool
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return RunMigrations(ctx, db, "up")
}

// RunMigrations executes a goose command ("up", "down", "status") against db
func RunMigrations(ctx context.Context, db *sql.DB, command string) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}
	case "down":
		if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
	case "status":
		if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}

	return nil
}
