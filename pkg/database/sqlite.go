package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/noah-isme/task-recommender/pkg/config"
)

//go:embed schema.sql
var catalogSchema string

var sqlitePragmas = []string{
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// NewSQLite opens a file-backed (or ":memory:") SQLite catalog.
func NewSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	path := cfg.Path
	if path == "" {
		path = "catalog.db"
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// An in-memory database exists per connection, so the pool must not grow past one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		configurePool(db, cfg)
	}

	for _, pragma := range sqlitePragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return db, nil
}

// ApplySchema creates the catalog tables when they do not exist yet.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, catalogSchema); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}
	return nil
}

//go:embed demo.sql
var demoData string

// SeedDemo loads a small sample catalog into an empty database.
// It is a no-op when students already exist.
func SeedDemo(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM students"); err != nil {
		return fmt.Errorf("count students: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin demo seed: %w", err)
	}
	if _, err := tx.ExecContext(ctx, demoData); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("seed demo catalog: %w", err)
	}
	return tx.Commit()
}
