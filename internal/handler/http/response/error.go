package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrMissingNameColumn),
		errors.Is(err, attendance.ErrEmptySpreadsheet),
		errors.Is(err, attendance.ErrInvalidTime):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrImportInProgress):
		Conflict(w, "Another attendance import is in progress, try again shortly")

	// Spreadsheet errors
	case errors.Is(err, spreadsheet.ErrSheetNotFound),
		errors.Is(err, spreadsheet.ErrNoHeader):
		BadRequest(w, err.Error(), nil)

	// Calendar errors
	case errors.Is(err, bsdate.ErrInvalidDate),
		errors.Is(err, bsdate.ErrOutOfRange):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNameExists):
		Conflict(w, "An employee with this name already exists")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEmployeeNotInPayroll):
		NotFound(w, "Employee is not part of this payroll")
	case errors.Is(err, payroll.ErrNegativeAdjustment):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
