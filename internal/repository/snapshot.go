package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

// ErrMalformedSnapshot is returned by Load when the file is not a JSON array.
var ErrMalformedSnapshot = errors.New("snapshot is not a JSON array")

// FileStore implements SnapshotStore using a pretty-printed JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore for the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the full path to the snapshot file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot and splits it into raw records without validating them.
func (s *FileStore) Load(_ context.Context) ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []json.RawMessage
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	return records, nil
}

// Save overwrites the snapshot atomically: the collection is written to a
// temp file next to the target and then renamed over it.
func (s *FileStore) Save(_ context.Context, employees []models.Employee) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if employees == nil {
		employees = []models.Employee{}
	}

	data, err := json.MarshalIndent(employees, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err = os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// Ping checks that the snapshot directory exists and is writable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	probe, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("snapshot directory is not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()

	return os.Remove(name)
}
