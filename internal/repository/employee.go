package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/UnknownOlympus/staffbook/internal/metrics"
	"github.com/UnknownOlympus/staffbook/internal/models"
)

// EmployeeRepository owns the in-memory employee collection and keeps the
// snapshot in step with it. Every successful mutation rewrites the snapshot
// while the write lock is held.
type EmployeeRepository struct {
	mu        sync.RWMutex
	log       *slog.Logger
	store     SnapshotStore
	metrics   *metrics.Metrics
	employees map[string]*models.Employee
	order     []string
	restoring bool
	newID     func() string
}

// Option customizes an EmployeeRepository.
type Option func(*EmployeeRepository)

// WithIDGenerator replaces the default id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *EmployeeRepository) {
		r.newID = fn
	}
}

// NewEmployeeRepository builds the repository and restores it from the snapshot before returning.
func NewEmployeeRepository(
	ctx context.Context,
	log *slog.Logger,
	store SnapshotStore,
	metrics *metrics.Metrics,
	opts ...Option,
) *EmployeeRepository {
	repo := &EmployeeRepository{
		log:       log,
		store:     store,
		metrics:   metrics,
		employees: make(map[string]*models.Employee),
		newID:     GenerateID,
	}
	for _, opt := range opts {
		opt(repo)
	}

	repo.restore(ctx)

	return repo
}

// GenerateID returns "<unix millis>-<6 random hex chars>".
func GenerateID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

func (r *EmployeeRepository) initLogger(opn string) *slog.Logger {
	return r.log.With(
		slog.String("op", opn),
		slog.String("division", "repository"),
	)
}

// Create stores a new employee, assigning an id when none is set.
func (r *EmployeeRepository) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.create(ctx, employee)
	r.observe("create", err)

	return stored, err
}

// List returns employees in insertion order, optionally only those of one department.
func (r *EmployeeRepository) List(_ context.Context, department string) []models.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Employee, 0, len(r.order))
	for _, id := range r.order {
		employee := r.employees[id]
		if department != "" && employee.Department != department {
			continue
		}
		result = append(result, *employee)
	}
	r.observe("list", nil)

	return result
}

// Get returns a single employee.
func (r *EmployeeRepository) Get(_ context.Context, id string) (models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employee, ok := r.employees[id]
	if !ok {
		err := models.NotFound(id)
		r.observe("get", err)
		return models.Employee{}, err
	}
	r.observe("get", nil)

	return *employee, nil
}

// Update merges the patch into an existing employee. The id in the patch is ignored.
func (r *EmployeeRepository) Update(
	ctx context.Context,
	id string,
	patch models.UpdatePayload,
) (models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.employees[id]
	if !ok {
		err := models.NotFound(id)
		r.observe("update", err)
		return models.Employee{}, err
	}

	employee.Apply(patch)
	r.persistIfNeeded(ctx)
	r.observe("update", nil)

	return *employee, nil
}

// Delete removes an employee and returns it.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.employees[id]
	if !ok {
		err := models.NotFound(id)
		r.observe("delete", err)
		return models.Employee{}, err
	}

	delete(r.employees, id)
	if idx := slices.Index(r.order, id); idx >= 0 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}
	r.metrics.Employees.Set(float64(len(r.employees)))

	r.persistIfNeeded(ctx)
	r.observe("delete", nil)

	return *employee, nil
}

// PersistNow writes the snapshot immediately and reports the write error, if any.
func (r *EmployeeRepository) PersistNow(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.persist(ctx)
}

// Count returns the number of stored employees.
func (r *EmployeeRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.employees)
}

// create is the insert path shared by Create and restore. Callers hold the write lock.
func (r *EmployeeRepository) create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if employee.ID == "" {
		employee.ID = r.uniqueID()
	}

	if _, exists := r.employees[employee.ID]; exists {
		return models.Employee{}, models.AlreadyExists(employee.ID)
	}

	stored := employee
	r.employees[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	r.metrics.Employees.Set(float64(len(r.employees)))

	r.persistIfNeeded(ctx)

	return stored, nil
}

func (r *EmployeeRepository) uniqueID() string {
	for {
		id := r.newID()
		if _, taken := r.employees[id]; !taken {
			return id
		}
	}
}

// persistIfNeeded writes the snapshot unless a restore is running. Failures
// are logged and counted; the in-memory change stands.
func (r *EmployeeRepository) persistIfNeeded(ctx context.Context) {
	if r.restoring {
		return
	}

	if err := r.persist(ctx); err != nil {
		r.initLogger("EmployeeRepository.persist").
			WarnContext(ctx, "Failed to write snapshot", "path", r.store.Path(), sl.Err(err))
	}
}

func (r *EmployeeRepository) persist(ctx context.Context) error {
	snapshot := make([]models.Employee, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, *r.employees[id])
	}

	startTime := time.Now()
	err := r.store.Save(ctx, snapshot)
	r.metrics.SnapshotLatency.Observe(time.Since(startTime).Seconds())

	if err != nil {
		r.metrics.SnapshotWrites.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	r.metrics.SnapshotWrites.WithLabelValues("success").Inc()

	return nil
}

func (r *EmployeeRepository) observe(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
		var domainErr *models.Error
		if errors.As(err, &domainErr) {
			status = domainErr.Kind.String()
		}
	}
	r.metrics.Operations.WithLabelValues(operation, status).Inc()
}
