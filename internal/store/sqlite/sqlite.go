// Package sqlite implements the store.Store interface backed by an embedded
// SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/alfredjeanlab/kvdb/internal/model"
	"github.com/alfredjeanlab/kvdb/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements store.Store on a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Compile-time check that SQLiteStore implements store.Store.
var _ store.Store = (*SQLiteStore)(nil)

// Open opens the database file at path, creating it (and its parent
// directory) if needed. The schema is not touched; call EnsureSchema.
func Open(path string) (*SQLiteStore, error) {
	if isFilePath(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory for %s: %w", store.ErrConnection, path, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", store.ErrConnection, path, err)
	}
	// One connection per process. A :memory: database exists per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open %s: %w", store.ErrConnection, path, err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// isFilePath reports whether path names a plain file rather than an
// in-memory database or a file: URI.
func isFilePath(path string) bool {
	return path != "" && path != ":memory:" && !strings.HasPrefix(path, "file:")
}

// Path returns the database location the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// EnsureSchema applies the embedded migrations. The kv table is created
// with IF NOT EXISTS so files created by older tools are adopted as-is.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if err := runMigrations(s.db); err != nil {
		return fmt.Errorf("%w: %w", store.ErrSchema, err)
	}
	return nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", store.ErrConnection, s.path, err)
	}
	return nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return querySet(ctx, s.db, key, value)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	return queryGet(ctx, s.db, key)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return queryDelete(ctx, s.db, key)
}

func (s *SQLiteStore) Timestamps(ctx context.Context, key string) (model.Timestamps, error) {
	return queryTimestamps(ctx, s.db, key)
}

func (s *SQLiteStore) List(ctx context.Context) ([]*model.Record, error) {
	return queryList(ctx, s.db)
}
