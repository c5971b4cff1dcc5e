package payroll

import (
	"fmt"
	"sort"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
	"github.com/shopspring/decimal"
)

var (
	overtimeMultiplier = decimal.NewFromFloat(1.5)
	tdsRate            = decimal.NewFromFloat(0.01)
	shiftHours         = decimal.NewFromFloat(attendance.StandardShiftHours)
)

// Generate computes one payroll row per Working employee for a Nepali month.
// Records outside the month are ignored, so callers may pass a wider set.
func Generate(bsYear, bsMonth int, employees []employee.Employee, records []attendance.AttendanceRecord) ([]payroll.PayrollRow, error) {
	daysInMonth, err := bsdate.DaysInMonth(bsYear, bsMonth)
	if err != nil {
		return nil, fmt.Errorf("invalid payroll period: %w", err)
	}

	byEmployee := groupByEmployee(employee.NewRoster(employees), records, bsYear, bsMonth)
	days := decimal.NewFromInt(int64(daysInMonth))

	rows := make([]payroll.PayrollRow, 0, len(employees))
	for _, e := range employees {
		if e.EmploymentStatus != employee.EmploymentStatusWorking {
			continue
		}

		var regularHours, overtimeHours decimal.Decimal
		absentDays := 0
		for _, r := range byEmployee[e.ID] {
			regularHours = regularHours.Add(decimal.NewFromFloat(r.RegularHours))
			overtimeHours = overtimeHours.Add(decimal.NewFromFloat(r.OvertimeHours))
			if r.Status.IsAbsence() {
				absentDays++
			}
		}

		row := payroll.PayrollRow{
			EmployeeID:    e.ID,
			EmployeeName:  e.Name,
			WageBasis:     string(e.WageBasis),
			WageAmount:    e.WageAmount,
			RegularHours:  regularHours.Round(2),
			OvertimeHours: overtimeHours.Round(2),
			TotalHours:    regularHours.Add(overtimeHours).Round(2),
			AbsentDays:    absentDays,
			Allowance:     e.AllowanceOrZero().Round(2),
		}

		var dailyRate, hourlyRate, deduction decimal.Decimal
		if e.WageBasis == employee.WageBasisHourly {
			hourlyRate = e.WageAmount
		} else {
			dailyRate = e.WageAmount.Div(days)
			hourlyRate = dailyRate.Div(shiftHours)
			deduction = dailyRate.Mul(decimal.NewFromInt(int64(absentDays)))
		}

		row.DailyRate = dailyRate.Round(2)
		row.HourlyRate = hourlyRate.Round(2)
		row.RegularPay = regularHours.Mul(hourlyRate).Round(2)
		row.OvertimePay = overtimeHours.Mul(hourlyRate).Mul(overtimeMultiplier).Round(2)
		row.TotalPay = row.RegularPay.Add(row.OvertimePay)
		row.Deduction = deduction.Round(2)
		recompute(&row)

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].EmployeeName < rows[j].EmployeeName })
	return rows, nil
}

// groupByEmployee assigns each in-month record to an employee id. The stored employee id wins;
// older records without one fall back to the normalized name.
func groupByEmployee(roster *employee.Roster, records []attendance.AttendanceRecord, bsYear, bsMonth int) map[string][]attendance.AttendanceRecord {
	out := map[string][]attendance.AttendanceRecord{}
	for _, r := range records {
		if !bsdate.InMonth(r.Date, bsYear, bsMonth) {
			continue
		}

		if r.EmployeeID != nil {
			if _, ok := roster.ByID(*r.EmployeeID); ok {
				out[*r.EmployeeID] = append(out[*r.EmployeeID], r)
				continue
			}
		}
		if e, ok := roster.Lookup(r.EmployeeName); ok {
			out[e.ID] = append(out[e.ID], r)
		}
	}
	return out
}

// recompute derives the salary total and everything below it from the pay, allowance,
// deduction and advance already on the row.
func recompute(row *payroll.PayrollRow) {
	row.SalaryTotal = row.TotalPay.Add(row.Allowance).Sub(row.Deduction)
	row.TDS = row.SalaryTotal.Mul(tdsRate).Round(2)
	row.Gross = row.SalaryTotal.Sub(row.TDS)
	row.NetPayment = row.Gross.Sub(row.Advance)
}

// QuickAdjust overrides the allowance and advance of one row in place. Total pay and
// deduction keep their generated values.
func QuickAdjust(rows []payroll.PayrollRow, employeeID string, allowance, advance decimal.Decimal) error {
	if allowance.IsNegative() || advance.IsNegative() {
		return payroll.ErrNegativeAdjustment
	}

	for i := range rows {
		if rows[i].EmployeeID != employeeID {
			continue
		}
		rows[i].Allowance = allowance.Round(2)
		rows[i].Advance = advance.Round(2)
		recompute(&rows[i])
		return nil
	}
	return fmt.Errorf("%w: %s", payroll.ErrEmployeeNotInPayroll, employeeID)
}
