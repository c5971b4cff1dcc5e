package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// RosterInvalidator drops data derived from the employee roster after it changes.
type RosterInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	invalidator  RosterInvalidator
	provisioning singleflight.Group
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, invalidator RosterInvalidator) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		invalidator:  invalidator,
	}
}

func (s *EmployeeServiceImpl) rosterChanged(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateAll(ctx); err != nil {
		slog.Warn("failed to invalidate analytics cache", "error", err)
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	if filter.Status != nil && !employee.EmploymentStatus(*filter.Status).IsValid() {
		return nil, employee.ErrInvalidStatus
	}

	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	name := strings.Join(strings.Fields(req.Name), " ")
	newEmployee := employee.Employee{
		Name:             name,
		NameKey:          employee.NameKey(name),
		EmploymentStatus: employee.EmploymentStatusWorking,
		WageBasis:        employee.WageBasisMonthly,
		WageAmount:       req.WageAmount,
		Allowance:        req.Allowance,
	}
	if req.EmploymentStatus != "" {
		newEmployee.EmploymentStatus = employee.EmploymentStatus(req.EmploymentStatus)
	}
	if req.WageBasis != "" {
		newEmployee.WageBasis = employee.WageBasis(req.WageBasis)
	}
	if req.CreatedBy != "" {
		newEmployee.CreatedBy = &req.CreatedBy
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.rosterChanged(ctx)

	slog.Info("Employee created", "employee_id", created.ID, "name", created.Name)
	return employee.ToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		name := strings.Join(strings.Fields(*req.Name), " ")
		req.Name = &name
	}

	if err := s.employeeRepo.Update(ctx, req.ID, req); err != nil {
		return employee.EmployeeResponse{}, err
	}
	s.rosterChanged(ctx)

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(updated), nil
}

type provisioned struct {
	employee employee.Employee
	created  bool
}

// Provision implements employee.EmployeeService.
// Concurrent calls for the same name share one insert; only the caller that ran it reports created.
func (s *EmployeeServiceImpl) Provision(ctx context.Context, name string, createdBy string) (employee.Employee, bool, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return employee.Employee{}, false, employee.ErrInvalidName
	}
	key := employee.NameKey(name)

	leader := false
	v, err, _ := s.provisioning.Do(key, func() (any, error) {
		leader = true

		newEmployee := employee.Employee{
			Name:             name,
			NameKey:          key,
			EmploymentStatus: employee.EmploymentStatusWorking,
			WageBasis:        employee.WageBasisMonthly,
			WageAmount:       decimal.Zero,
		}
		if createdBy != "" {
			newEmployee.CreatedBy = &createdBy
		}

		e, created, err := s.employeeRepo.CreateIfAbsent(ctx, newEmployee)
		if err != nil {
			return nil, err
		}
		return provisioned{employee: e, created: created}, nil
	})
	if err != nil {
		return employee.Employee{}, false, fmt.Errorf("failed to provision employee %q: %w", name, err)
	}

	p := v.(provisioned)
	if p.created && leader {
		s.rosterChanged(ctx)
		slog.Info("Employee provisioned from attendance import", "employee_id", p.employee.ID, "name", p.employee.Name)
	}
	return p.employee, p.created && leader, nil
}
