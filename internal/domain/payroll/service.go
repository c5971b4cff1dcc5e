package payroll

import "context"

// PayrollService builds payroll views. Nothing it returns is persisted.
type PayrollService interface {
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (PayrollReportResponse, error)

	// AdjustPayroll regenerates the month and applies quick adjustments to the result
	AdjustPayroll(ctx context.Context, req AdjustPayrollRequest) (PayrollReportResponse, error)
}
