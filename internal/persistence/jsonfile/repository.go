// Package jsonfile persists the application snapshot as a single JSON file.
//
// Writes go through a temporary file in the same directory followed by a
// rename, so a crash mid-write leaves the previous snapshot intact.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/social-battery/internal/persistence"
)

// Repository implements persistence.SnapshotRepository on a local file.
type Repository struct {
	path string
}

// New returns a repository that reads and writes the snapshot at path.
func New(path string) *Repository {
	return &Repository{path: path}
}

// Load reads and decodes the snapshot. A missing file maps to
// persistence.ErrNotFound so callers can fall back to defaults.
func (r *Repository) Load(ctx context.Context) (persistence.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.Snapshot{}, persistence.ErrNotFound
		}
		return persistence.Snapshot{}, fmt.Errorf("jsonfile: read snapshot: %w", err)
	}

	var snap persistence.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("jsonfile: decode snapshot: %w", err)
	}
	return snap, nil
}

// Save encodes the snapshot and atomically replaces the previous file.
func (r *Repository) Save(ctx context.Context, snap persistence.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replace snapshot: %w", err)
	}
	return nil
}
