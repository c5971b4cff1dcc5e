package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeNameExists = errors.New("an employee with this name already exists")
	ErrInvalidName        = errors.New("employee name is required")
	ErrInvalidWageBasis   = errors.New("wage basis must be Monthly or Hourly")
	ErrInvalidStatus      = errors.New("employment status must be Working, Long Leave, Resigned or Dismissed")
	ErrNegativeAmount     = errors.New("amount must be non-negative")
)
