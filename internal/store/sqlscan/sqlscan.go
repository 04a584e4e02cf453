// Package sqlscan converts kv rows into model values. It is shared by the
// database/sql stores, which select the same columns in the same order.
package sqlscan

import (
	"database/sql"

	"github.com/alfredjeanlab/kvdb/internal/model"
)

// Scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type Scannable interface {
	Scan(dest ...any) error
}

// Record scans key, value, insert_ts, update_ts into a model.Record.
// NULL columns become empty strings.
func Record(row Scannable) (*model.Record, error) {
	var r model.Record
	var value, insertTS, updateTS sql.NullString
	if err := row.Scan(&r.Key, &value, &insertTS, &updateTS); err != nil {
		return nil, err
	}
	r.Value = value.String
	r.InsertTS = insertTS.String
	r.UpdateTS = updateTS.String
	return &r, nil
}

// Records scans every remaining row. It does not close rows.
func Records(rows *sql.Rows) ([]*model.Record, error) {
	var records []*model.Record
	for rows.Next() {
		r, err := Record(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Timestamps scans insert_ts, update_ts.
func Timestamps(row Scannable) (model.Timestamps, error) {
	var insertTS, updateTS sql.NullString
	if err := row.Scan(&insertTS, &updateTS); err != nil {
		return model.Timestamps{}, err
	}
	return model.Timestamps{InsertTS: insertTS.String, UpdateTS: updateTS.String}, nil
}
