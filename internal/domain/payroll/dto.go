package payroll

import (
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GeneratePayrollRequest struct {
	BSYear  int
	BSMonth int // 0-based
}

func (r *GeneratePayrollRequest) Validate() error {
	if errs := validator.ValidatePeriod(r.BSYear, r.BSMonth); len(errs) > 0 {
		return errs
	}
	return nil
}

// QuickAdjustment overrides one employee's allowance and advance in a report view.
type QuickAdjustment struct {
	EmployeeID string          `json:"employee_id"`
	Allowance  decimal.Decimal `json:"allowance"`
	Advance    decimal.Decimal `json:"advance"`
}

type AdjustPayrollRequest struct {
	BSYear      int               `json:"-"`
	BSMonth     int               `json:"-"`
	Adjustments []QuickAdjustment `json:"adjustments"`
}

func (r *AdjustPayrollRequest) Validate() error {
	errs := validator.ValidatePeriod(r.BSYear, r.BSMonth)

	if len(r.Adjustments) == 0 {
		errs = append(errs, validator.ValidationError{Field: "adjustments", Message: "at least one adjustment is required"})
	}
	for i, a := range r.Adjustments {
		field := "adjustments[" + validator.Itoa(i) + "]"
		if validator.IsEmpty(a.EmployeeID) {
			errs = append(errs, validator.ValidationError{Field: field + ".employee_id", Message: "is required"})
		}
		if a.Allowance.IsNegative() || a.Advance.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: ErrNegativeAdjustment.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollReportResponse struct {
	BSYear      int           `json:"bs_year"`
	BSMonth     int           `json:"bs_month"` // 1-based
	MonthName   string        `json:"month_name"`
	DaysInMonth int           `json:"days_in_month"`
	Rows        []PayrollRow  `json:"rows"`
	Totals      PayrollTotals `json:"totals"`
}
