// filepath: internal/repository/repository.go
// Package repository implements the persistence layer on SQLite.
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"ranktrack/internal/config"
	"ranktrack/internal/db/migrations"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Repository provides access to the SQLite store. All mutations rely on the
// schema's uniqueness constraints (upsert-on-conflict); there is no
// application-level locking.
type Repository struct {
	DB      *sql.DB
	Cache   *cache.Cache
	Builder squirrel.StatementBuilderType
}

// NewRepository opens the SQLite database and prepares the query builder.
func NewRepository(cfg *config.Config) (*Repository, error) {
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite needs WAL for concurrent readers and foreign_keys for the
	// cascade chain site -> keyword -> ranking.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", p, err)
		}
	}

	return &Repository{
		DB:      db,
		Cache:   cache.New(5*time.Minute, 10*time.Minute),
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Close closes the underlying database connection.
func (s *Repository) Close() error {
	return s.DB.Close()
}

// MigrateUp applies all pending migrations from the embedded FS.
func (s *Repository) MigrateUp() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(s.DB, ".")
}

// MigrateDown rolls back the most recent migration.
func (s *Repository) MigrateDown() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Down(s.DB, ".")
}

// MigrationStatus prints the goose migration status.
func (s *Repository) MigrationStatus() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Status(s.DB, ".")
}
