package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeFilter struct {
	Status *string
	Name   *string
}

type CreateEmployeeRequest struct {
	Name             string           `json:"name"`
	EmploymentStatus string           `json:"employment_status"`
	WageBasis        string           `json:"wage_basis"`
	WageAmount       decimal.Decimal  `json:"wage_amount"`
	Allowance        *decimal.Decimal `json:"allowance,omitempty"`
	CreatedBy        string           `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.EmploymentStatus != "" && !EmploymentStatus(r.EmploymentStatus).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "employment_status", Message: "must be one of Working, Long Leave, Resigned, Dismissed"})
	}
	if r.WageBasis != "" && !WageBasis(r.WageBasis).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "wage_basis", Message: "must be Monthly or Hourly"})
	}
	if r.WageAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "wage_amount", Message: "must be non-negative"})
	}
	if r.Allowance != nil && r.Allowance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowance", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID               string           `json:"-"`
	Name             *string          `json:"name,omitempty"`
	EmploymentStatus *string          `json:"employment_status,omitempty"`
	WageBasis        *string          `json:"wage_basis,omitempty"`
	WageAmount       *decimal.Decimal `json:"wage_amount,omitempty"`
	Allowance        *decimal.Decimal `json:"allowance,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.EmploymentStatus != nil && !EmploymentStatus(*r.EmploymentStatus).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "employment_status", Message: "must be one of Working, Long Leave, Resigned, Dismissed"})
	}
	if r.WageBasis != nil && !WageBasis(*r.WageBasis).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "wage_basis", Message: "must be Monthly or Hourly"})
	}
	if r.WageAmount != nil && r.WageAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "wage_amount", Message: "must be non-negative"})
	}
	if r.Allowance != nil && r.Allowance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowance", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	EmploymentStatus string           `json:"employment_status"`
	WageBasis        string           `json:"wage_basis"`
	WageAmount       decimal.Decimal  `json:"wage_amount"`
	Allowance        *decimal.Decimal `json:"allowance,omitempty"`
	CreatedBy        *string          `json:"created_by,omitempty"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		Name:             e.Name,
		EmploymentStatus: string(e.EmploymentStatus),
		WageBasis:        string(e.WageBasis),
		WageAmount:       e.WageAmount,
		Allowance:        e.Allowance,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.Format(time.RFC3339),
	}
}
