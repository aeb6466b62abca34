package repository_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
)

// memStore is an in-memory SnapshotStore that records every save.
type memStore struct {
	mu      sync.Mutex
	records []json.RawMessage
	loadErr error
	saveErr error
	saves   [][]models.Employee
}

func (m *memStore) Load(_ context.Context) ([]json.RawMessage, error) {
	return m.records, m.loadErr
}

func (m *memStore) Save(_ context.Context, employees []models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves = append(m.saves, append([]models.Employee(nil), employees...))

	return m.saveErr
}

func (m *memStore) Path() string {
	return "memory"
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.saves)
}

func (m *memStore) lastSave() []models.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.saves) == 0 {
		return nil
	}

	return m.saves[len(m.saves)-1]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRepo(t *testing.T, store repository.SnapshotStore, opts ...repository.Option) (
	*repository.EmployeeRepository, *metrics.Metrics,
) {
	t.Helper()

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	repo := repository.NewEmployeeRepository(t.Context(), discardLogger(), store, appMetrics, opts...)

	return repo, appMetrics
}

func ann() models.Employee {
	return models.Employee{
		FullName:   "Ann",
		Department: "Eng",
		BirthDate:  "2000-01-01",
		Salary:     50000,
	}
}
