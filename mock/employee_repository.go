package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/UnknownOlympus/staffbook/internal/models"
)

// EmployeeRepository is a testify mock of the API's storage dependency.
type EmployeeRepository struct {
	mock.Mock
}

// NewEmployeeRepository creates a mock that asserts its expectations when the test ends.
func NewEmployeeRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *EmployeeRepository {
	m := &EmployeeRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *EmployeeRepository) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	args := m.Called(ctx, employee)
	return args.Get(0).(models.Employee), args.Error(1)
}

func (m *EmployeeRepository) List(ctx context.Context, department string) []models.Employee {
	args := m.Called(ctx, department)
	return args.Get(0).([]models.Employee)
}

func (m *EmployeeRepository) Get(ctx context.Context, id string) (models.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Employee), args.Error(1)
}

func (m *EmployeeRepository) Update(
	ctx context.Context,
	id string,
	patch models.UpdatePayload,
) (models.Employee, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Employee), args.Error(1)
}

func (m *EmployeeRepository) Delete(ctx context.Context, id string) (models.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Employee), args.Error(1)
}

func (m *EmployeeRepository) PersistNow(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
