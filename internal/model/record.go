package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the text form of insert_ts and update_ts:
// UTC with millisecond precision and a literal "Z" suffix.
const TimestampLayout = "2006-01-02 15:04:05.000Z"

// Record is a single key-value row.
type Record struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	InsertTS string `json:"insert_ts"`
	UpdateTS string `json:"update_ts"`
}

// Timestamps holds the creation and last-update times of a key.
// InsertTS is set once when the key is first written and never changes.
type Timestamps struct {
	InsertTS string `json:"insert_ts"`
	UpdateTS string `json:"update_ts"`
}

// Timestamps returns the record's timestamp pair.
func (r *Record) Timestamps() Timestamps {
	return Timestamps{InsertTS: r.InsertTS, UpdateTS: r.UpdateTS}
}

// ParseTimestamp parses a stored timestamp string.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatTimestamp renders t in the stored timestamp form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Ordered reports whether the insert timestamp is not after the update
// timestamp. Malformed timestamps are never ordered.
func (ts Timestamps) Ordered() bool {
	ins, err := ParseTimestamp(ts.InsertTS)
	if err != nil {
		return false
	}
	upd, err := ParseTimestamp(ts.UpdateTS)
	if err != nil {
		return false
	}
	return !ins.After(upd)
}
