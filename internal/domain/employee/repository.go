package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	// CreateIfAbsent inserts the employee unless one with the same name key exists.
	// It returns the stored employee and whether this call created it.
	CreateIfAbsent(ctx context.Context, newEmployee Employee) (Employee, bool, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
}
