package repository

import (
	"context"
	"encoding/json"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

// SnapshotStore persists the full employee collection and hands raw records back on restore.
type SnapshotStore interface {
	// Load returns the raw records of the last snapshot. A missing or blank snapshot yields no records and no error.
	Load(ctx context.Context) ([]json.RawMessage, error)
	// Save replaces the snapshot with the given collection.
	Save(ctx context.Context, employees []models.Employee) error
	// Path is where the snapshot lives, used for logging.
	Path() string
}
