// Package export writes every record of a store as JSONL and ships the
// payload to a destination (a local file, stdout, or an S3 bucket).
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/kvdb/internal/store"
)

// Format version written in the header line.
const Version = "1"

// Header is the first JSONL record written by ExportJSONL.
type Header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	RecordCount int       `json:"record_count"`
}

// line wraps a single JSONL record with a type discriminator.
type line struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Destination is the interface for an export target.
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// ExportJSONL writes a header line followed by every record from the store,
// in key order, to w.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Header{
		Version:     Version,
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		RecordCount: len(records),
	}); err != nil {
		return 0, fmt.Errorf("encode header: %w", err)
	}

	for _, r := range records {
		if err := enc.Encode(line{Type: "record", Data: r}); err != nil {
			return 0, fmt.Errorf("encode record %q: %w", r.Key, err)
		}
	}

	return len(records), nil
}

// Run exports the store into memory and writes the payload to dest.
// It returns the number of records exported.
func Run(ctx context.Context, s store.Store, dest Destination) (int, error) {
	var buf bytes.Buffer
	n, err := ExportJSONL(ctx, s, &buf)
	if err != nil {
		return 0, err
	}
	if err := dest.Write(ctx, buf.Bytes()); err != nil {
		return 0, err
	}
	return n, nil
}
