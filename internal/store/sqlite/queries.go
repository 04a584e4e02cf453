package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/kvdb/internal/model"
	"github.com/alfredjeanlab/kvdb/internal/store"
	"github.com/alfredjeanlab/kvdb/internal/store/sqlscan"
)

// nowTS is the SQL expression for the current time in model.TimestampLayout.
const nowTS = `strftime('%Y-%m-%d %H:%M:%fZ', 'now')`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func querySet(ctx context.Context, db executor, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, update_ts = `+nowTS,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%w: set %q: %w", store.ErrWrite, key, err)
	}
	return nil
}

func queryGet(ctx context.Context, db executor, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %q: %w", store.ErrRead, key, err)
	}
	return value.String, true, nil
}

func queryDelete(ctx context.Context, db executor, key string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: delete %q: %w", store.ErrWrite, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete %q: rows affected: %w", store.ErrWrite, key, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", key, store.ErrNotFound)
	}
	return nil
}

func queryTimestamps(ctx context.Context, db executor, key string) (model.Timestamps, error) {
	row := db.QueryRowContext(ctx, `SELECT insert_ts, update_ts FROM kv WHERE key = ?`, key)
	ts, err := sqlscan.Timestamps(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Timestamps{}, fmt.Errorf("timestamps %q: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return model.Timestamps{}, fmt.Errorf("%w: timestamps %q: %w", store.ErrRead, key, err)
	}
	return ts, nil
}

func queryList(ctx context.Context, db executor) ([]*model.Record, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT key, value, insert_ts, update_ts
		FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", store.ErrRead, err)
	}
	defer rows.Close()

	records, err := sqlscan.Records(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", store.ErrRead, err)
	}
	return records, nil
}
