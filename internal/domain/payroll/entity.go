package payroll

import "github.com/shopspring/decimal"

// PayrollRow is one employee's pay for a Nepali month. Rows are derived on demand from the
// roster and attendance; only QuickAdjust changes them afterwards.
type PayrollRow struct {
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	WageBasis     string          `json:"wage_basis"`
	WageAmount    decimal.Decimal `json:"wage_amount"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	AbsentDays    int             `json:"absent_days"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	RegularPay    decimal.Decimal `json:"regular_pay"`
	OvertimePay   decimal.Decimal `json:"ot_pay"`
	TotalPay      decimal.Decimal `json:"total_pay"`
	Allowance     decimal.Decimal `json:"allowance"`
	Deduction     decimal.Decimal `json:"deduction"`
	SalaryTotal   decimal.Decimal `json:"salary_total"`
	TDS           decimal.Decimal `json:"tds"`
	Gross         decimal.Decimal `json:"gross"`
	Advance       decimal.Decimal `json:"advance"`
	NetPayment    decimal.Decimal `json:"net_payment"`
}

// PayrollTotals sums the money columns of a report.
type PayrollTotals struct {
	RegularPay  decimal.Decimal `json:"regular_pay"`
	OvertimePay decimal.Decimal `json:"ot_pay"`
	TotalPay    decimal.Decimal `json:"total_pay"`
	Allowance   decimal.Decimal `json:"allowance"`
	Deduction   decimal.Decimal `json:"deduction"`
	SalaryTotal decimal.Decimal `json:"salary_total"`
	TDS         decimal.Decimal `json:"tds"`
	Gross       decimal.Decimal `json:"gross"`
	Advance     decimal.Decimal `json:"advance"`
	NetPayment  decimal.Decimal `json:"net_payment"`
}

func SumRows(rows []PayrollRow) PayrollTotals {
	var t PayrollTotals
	for _, r := range rows {
		t.RegularPay = t.RegularPay.Add(r.RegularPay)
		t.OvertimePay = t.OvertimePay.Add(r.OvertimePay)
		t.TotalPay = t.TotalPay.Add(r.TotalPay)
		t.Allowance = t.Allowance.Add(r.Allowance)
		t.Deduction = t.Deduction.Add(r.Deduction)
		t.SalaryTotal = t.SalaryTotal.Add(r.SalaryTotal)
		t.TDS = t.TDS.Add(r.TDS)
		t.Gross = t.Gross.Add(r.Gross)
		t.Advance = t.Advance.Add(r.Advance)
		t.NetPayment = t.NetPayment.Add(r.NetPayment)
	}
	return t
}
