package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileDestination writes the payload to a local file, or to Stdout when
// Path is "-" or empty.
type FileDestination struct {
	Path   string
	Stdout io.Writer
}

func (d *FileDestination) Write(ctx context.Context, data []byte) error {
	if d.Path == "" || d.Path == "-" {
		_, err := d.Stdout.Write(data)
		return err
	}

	// Write to a sibling temp file and rename so readers never see a
	// partial export.
	tmp, err := os.CreateTemp(filepath.Dir(d.Path), ".kvdb-export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("rename to %s: %w", d.Path, err)
	}
	return nil
}
