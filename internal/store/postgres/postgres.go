// Package postgres implements the store.Store interface backed by PostgreSQL.
// Timestamps are stored as text in the same layout the SQLite store uses.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/kvdb/internal/model"
	"github.com/alfredjeanlab/kvdb/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL.
// The schema is not touched; call EnsureSchema.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", store.ErrConnection, err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", store.ErrConnection, err)
	}

	return newWithDB(db), nil
}

func newWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the embedded migrations.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
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

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", store.ErrConnection, err)
	}
	return nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	return querySet(ctx, s.db, key, value)
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	return queryGet(ctx, s.db, key)
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return queryDelete(ctx, s.db, key)
}

func (s *PostgresStore) Timestamps(ctx context.Context, key string) (model.Timestamps, error) {
	return queryTimestamps(ctx, s.db, key)
}

func (s *PostgresStore) List(ctx context.Context) ([]*model.Record, error) {
	return queryList(ctx, s.db)
}
