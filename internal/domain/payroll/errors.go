package payroll

import "errors"

var (
	ErrEmployeeNotInPayroll = errors.New("employee is not part of this payroll")
	ErrNegativeAdjustment   = errors.New("allowance and advance must be non-negative")
)
