package repository

import (
	"context"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/models"
)

// restore loads the snapshot into memory. Unreadable snapshots leave the
// repository empty, invalid or duplicated records are dropped, and once done
// the snapshot is rewritten a single time so the file matches what was loaded.
func (r *EmployeeRepository) restore(ctx context.Context) {
	const opn = "EmployeeRepository.restore"
	log := r.initLogger(opn)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.restoring = true
	defer func() {
		r.restoring = false
		if err := r.persist(ctx); err != nil {
			log.WarnContext(ctx, "Failed to normalize snapshot after restore", "path", r.store.Path(), sl.Err(err))
		}
	}()

	records, err := r.store.Load(ctx)
	if err != nil {
		log.WarnContext(ctx, "Snapshot is unreadable, starting empty", "path", r.store.Path(), sl.Err(err))
		return
	}

	var skipped int
	for index, raw := range records {
		payload, decodeErr := models.DecodeCreate(raw)
		if decodeErr != nil {
			skipped++
			log.DebugContext(ctx, "Skipping invalid snapshot record", "index", index, sl.Err(decodeErr))
			continue
		}

		if _, createErr := r.create(ctx, payload.Employee()); createErr != nil {
			skipped++
			log.DebugContext(ctx, "Skipping duplicated snapshot record", "index", index, sl.Err(createErr))
			continue
		}
	}

	r.metrics.RestoreSkipped.Add(float64(skipped))
	log.InfoContext(ctx, "Snapshot restored",
		"path", r.store.Path(), "loaded", len(r.employees), "skipped", skipped)
}
