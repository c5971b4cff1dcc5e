package payroll

import (
	"testing"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func staff(id, name string, basis employee.WageBasis, wage string) employee.Employee {
	return employee.Employee{
		ID:               id,
		Name:             name,
		NameKey:          employee.NameKey(name),
		EmploymentStatus: employee.EmploymentStatusWorking,
		WageBasis:        basis,
		WageAmount:       dec(wage),
	}
}

// workDays spreads hours over consecutive days of a Nepali month starting at day 1.
func workDays(t *testing.T, emp employee.Employee, year, month int, days int, regular, overtime float64, status attendance.Status) []attendance.AttendanceRecord {
	t.Helper()
	out := make([]attendance.AttendanceRecord, 0, days)
	for d := 1; d <= days; d++ {
		r, err := bsdate.Resolve(year, month, d)
		require.NoError(t, err)
		id := emp.ID
		out = append(out, attendance.AttendanceRecord{
			Date:          r.Gregorian,
			NepaliDate:    r.NepaliDate,
			EmployeeID:    &id,
			EmployeeName:  emp.Name,
			Status:        status,
			RegularHours:  regular,
			OvertimeHours: overtime,
			GrossHours:    regular + overtime,
		})
	}
	return out
}

func TestGenerate_MonthlyThirtyDayMonth(t *testing.T) {
	// Kartik 2082 has 30 days.
	emp := staff("e1", "Sita Sharma", employee.WageBasisMonthly, "30000")
	records := workDays(t, emp, 2082, 6, 26, 8, 0, attendance.StatusPresent)

	rows, err := Generate(2082, 6, []employee.Employee{emp}, records)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assertMoney(t, "208", r.RegularHours, "regular hours")
	assertMoney(t, "0", r.OvertimeHours, "overtime hours")
	assert.Zero(t, r.AbsentDays)
	assertMoney(t, "1000", r.DailyRate, "daily rate")
	assertMoney(t, "125", r.HourlyRate, "hourly rate")
	assertMoney(t, "26000", r.RegularPay, "regular pay")
	assertMoney(t, "0", r.Deduction, "deduction")
	assertMoney(t, "26000", r.SalaryTotal, "salary total")
	assertMoney(t, "260", r.TDS, "tds")
	assertMoney(t, "25740", r.Gross, "gross")
	assertMoney(t, "25740", r.NetPayment, "net payment")
}

func TestGenerate_Hourly(t *testing.T) {
	emp := staff("e2", "Hari Thapa", employee.WageBasisHourly, "200")
	records := workDays(t, emp, 2081, 3, 20, 8, 0.5, attendance.StatusPresent)
	// Absence lowers hours but produces no deduction for hourly staff.
	absent := workDays(t, emp, 2081, 3, 1, 0, 0, attendance.StatusAbsent)
	absent[0].Date = absent[0].Date.AddDate(0, 0, 25)
	records = append(records, absent...)

	rows, err := Generate(2081, 3, []employee.Employee{emp}, records)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assertMoney(t, "160", r.RegularHours, "regular hours")
	assertMoney(t, "10", r.OvertimeHours, "overtime hours")
	assertMoney(t, "170", r.TotalHours, "total hours")
	assert.Equal(t, 1, r.AbsentDays)
	assertMoney(t, "32000", r.RegularPay, "regular pay")
	assertMoney(t, "3000", r.OvertimePay, "ot pay")
	assertMoney(t, "35000", r.TotalPay, "total pay")
	assertMoney(t, "0", r.Deduction, "deduction")
	assertMoney(t, "350", r.TDS, "tds")
	assertMoney(t, "34650", r.NetPayment, "net payment")
}

func TestGenerate_MonthlyAbsenceAndAllowance(t *testing.T) {
	// Shrawan 2081 has 32 days.
	emp := staff("e3", "Maya Rai", employee.WageBasisMonthly, "31000")
	allowance := dec("2000")
	emp.Allowance = &allowance

	records := workDays(t, emp, 2081, 3, 10, 8, 1, attendance.StatusPresent)
	for i, s := range []attendance.Status{attendance.StatusAbsent, attendance.StatusClockInMiss, attendance.Status("true")} {
		records[i].Status = s
	}

	rows, err := Generate(2081, 3, []employee.Employee{emp}, records)
	require.NoError(t, err)
	r := rows[0]

	days, err := bsdate.DaysInMonth(2081, 3)
	require.NoError(t, err)
	require.Equal(t, 32, days)

	// 31000 / 32 = 968.75 a day, 121.09375 an hour.
	assert.Equal(t, 3, r.AbsentDays)
	assertMoney(t, "968.75", r.DailyRate, "daily rate")
	assertMoney(t, "121.09", r.HourlyRate, "hourly rate")
	assertMoney(t, "9687.5", r.RegularPay, "regular pay")
	assertMoney(t, "1816.41", r.OvertimePay, "ot pay")
	assertMoney(t, "11503.91", r.TotalPay, "total pay")
	assertMoney(t, "2906.25", r.Deduction, "deduction")
	assertMoney(t, "10597.66", r.SalaryTotal, "salary total")
	assertMoney(t, "105.98", r.TDS, "tds")
	assertMoney(t, "10491.68", r.NetPayment, "net payment")
}

func TestGenerate_FiltersStatusMonthAndMatchesByName(t *testing.T) {
	working := staff("e1", "Sita Sharma", employee.WageBasisHourly, "100")
	resigned := staff("e2", "Gopal KC", employee.WageBasisHourly, "100")
	resigned.EmploymentStatus = employee.EmploymentStatusResigned

	records := workDays(t, working, 2082, 0, 2, 8, 0, attendance.StatusPresent)
	// A legacy record carries only the name.
	legacy := workDays(t, working, 2082, 0, 3, 8, 0, attendance.StatusPresent)[2]
	legacy.EmployeeID = nil
	legacy.EmployeeName = "SITA  sharma"
	records = append(records, legacy)
	// Next month's record is ignored.
	next := workDays(t, working, 2082, 1, 1, 8, 0, attendance.StatusPresent)
	records = append(records, next...)
	records = append(records, workDays(t, resigned, 2082, 0, 5, 8, 0, attendance.StatusPresent)...)

	rows, err := Generate(2082, 0, []employee.Employee{resigned, working}, records)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "e1", rows[0].EmployeeID)
	assertMoney(t, "24", rows[0].RegularHours, "regular hours")
}

func TestGenerate_MonthlyThirtyOneDayMonth(t *testing.T) {
	// Baisakh 2082 has 31 days, so the daily rate drops below a 30-day month's.
	emp := staff("e1", "Sita Sharma", employee.WageBasisMonthly, "31000")
	records := workDays(t, emp, 2082, 0, 30, 8, 0, attendance.StatusPresent)
	records[29].Status = attendance.StatusAbsent

	rows, err := Generate(2082, 0, []employee.Employee{emp}, records)
	require.NoError(t, err)
	r := rows[0]
	assertMoney(t, "1000", r.DailyRate, "daily rate")
	assert.Equal(t, 1, r.AbsentDays)
	assertMoney(t, "1000", r.Deduction, "deduction")
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	_, err := Generate(2082, 12, nil, nil)
	assert.ErrorIs(t, err, bsdate.ErrInvalidDate)
}

func TestQuickAdjust(t *testing.T) {
	emp := staff("e1", "Sita Sharma", employee.WageBasisMonthly, "30000")
	rows, err := Generate(2082, 6, []employee.Employee{emp}, workDays(t, emp, 2082, 6, 26, 8, 0, attendance.StatusPresent))
	require.NoError(t, err)

	require.NoError(t, QuickAdjust(rows, "e1", dec("1000"), dec("5000")))
	r := rows[0]
	assertMoney(t, "26000", r.TotalPay, "total pay")
	assertMoney(t, "0", r.Deduction, "deduction")
	assertMoney(t, "1000", r.Allowance, "allowance")
	assertMoney(t, "27000", r.SalaryTotal, "salary total")
	assertMoney(t, "270", r.TDS, "tds")
	assertMoney(t, "26730", r.Gross, "gross")
	assertMoney(t, "5000", r.Advance, "advance")
	assertMoney(t, "21730", r.NetPayment, "net payment")

	err = QuickAdjust(rows, "missing", dec("0"), dec("0"))
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotInPayroll)

	err = QuickAdjust(rows, "e1", dec("-1"), dec("0"))
	assert.ErrorIs(t, err, payroll.ErrNegativeAdjustment)
}

func TestSumRows(t *testing.T) {
	rows := []payroll.PayrollRow{
		{NetPayment: dec("100.10"), TDS: dec("1.01")},
		{NetPayment: dec("200.25"), TDS: dec("2.02")},
	}
	totals := payroll.SumRows(rows)
	assertMoney(t, "300.35", totals.NetPayment, "net")
	assertMoney(t, "3.03", totals.TDS, "tds")
}
