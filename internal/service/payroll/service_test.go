package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
	err       error
}

func (r stubEmployeeRepo) List(context.Context, employee.EmployeeFilter) ([]employee.Employee, error) {
	return r.employees, r.err
}

type stubAttendanceRepo struct {
	attendance.AttendanceRepository
	records  []attendance.AttendanceRecord
	from, to time.Time
}

func (r *stubAttendanceRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	r.from, r.to = from, to
	return r.records, nil
}

func TestPayrollService_GenerateAndAdjust(t *testing.T) {
	emp := staff("e1", "Sita Sharma", employee.WageBasisMonthly, "30000")
	attRepo := &stubAttendanceRepo{records: workDays(t, emp, 2082, 6, 26, 8, 0, attendance.StatusPresent)}
	svc := NewPayrollService(stubEmployeeRepo{employees: []employee.Employee{emp}}, attRepo)
	ctx := context.Background()

	report, err := svc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{BSYear: 2082, BSMonth: 6})
	require.NoError(t, err)
	assert.Equal(t, 7, report.BSMonth)
	assert.Equal(t, "Kartik", report.MonthName)
	assert.Equal(t, 30, report.DaysInMonth)
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), attRepo.from)
	assert.Equal(t, time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), attRepo.to)
	require.Len(t, report.Rows, 1)
	assertMoney(t, "25740", report.Totals.NetPayment, "net total")

	adjusted, err := svc.AdjustPayroll(ctx, payroll.AdjustPayrollRequest{
		BSYear:      2082,
		BSMonth:     6,
		Adjustments: []payroll.QuickAdjustment{{EmployeeID: "e1", Allowance: dec("0"), Advance: dec("740")}},
	})
	require.NoError(t, err)
	assertMoney(t, "25000", adjusted.Totals.NetPayment, "adjusted net total")

	_, err = svc.AdjustPayroll(ctx, payroll.AdjustPayrollRequest{
		BSYear:      2082,
		BSMonth:     6,
		Adjustments: []payroll.QuickAdjustment{{EmployeeID: "e9"}},
	})
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotInPayroll)
}

func TestPayrollService_Errors(t *testing.T) {
	svc := NewPayrollService(stubEmployeeRepo{err: errors.New("db down")}, &stubAttendanceRepo{})
	ctx := context.Background()

	_, err := svc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{BSYear: 2030, BSMonth: 0})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "bs_year", verrs[0].Field)

	_, err = svc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{BSYear: 2082, BSMonth: 0})
	assert.ErrorContains(t, err, "db down")
}
