package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees returns the roster, optionally filtered by status or name
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee creates a new employee from an explicit HR action
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee updates status, wage or allowance of an employee
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// Provision creates a Working, Monthly, zero-wage employee unless one with the same
	// normalized name exists. Safe to call concurrently for the same name.
	Provision(ctx context.Context, name string, createdBy string) (Employee, bool, error)
}
