package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
)

// SnapshotPinger reports whether the snapshot file can be written.
type SnapshotPinger interface {
	Ping(ctx context.Context) error
}

// EmployeeCounter reports how many employees are held in memory.
type EmployeeCounter interface {
	Count() int
}

type healthStatus struct {
	Snapshot  string `json:"snapshot"`
	Employees int    `json:"employees"`
}

type HealthChecker struct {
	store   SnapshotPinger
	counter EmployeeCounter
	log     *slog.Logger
}

func NewHealthChecker(store SnapshotPinger, counter EmployeeCounter, log *slog.Logger) *HealthChecker {
	return &HealthChecker{
		store:   store,
		counter: counter,
		log:     log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := healthStatus{Snapshot: "ok", Employees: h.counter.Count()}
	overallStatus := http.StatusOK

	if err := h.store.Ping(req.Context()); err != nil {
		status.Snapshot = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: snapshot not writable", sl.Err(err))
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}
