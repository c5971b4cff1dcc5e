package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-erp-go/internal/handler/http/response"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/spreadsheet"
)

type PayrollHandler interface {
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	AdjustPayroll(w http.ResponseWriter, r *http.Request)
	ExportPayroll(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// GeneratePayroll implements PayrollHandler
func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.GeneratePayroll(r.Context(), payroll.GeneratePayrollRequest{BSYear: year, BSMonth: month})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AdjustPayroll implements PayrollHandler
func (h *payrollHandlerImpl) AdjustPayroll(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.AdjustPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.BSYear, req.BSMonth = year, month

	result, err := h.payrollService.AdjustPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

var payrollExportHeader = []string{
	"Employee", "Wage Basis", "Wage", "Regular Hours", "OT Hours", "Absent Days",
	"Regular Pay", "OT Pay", "Total Pay", "Allowance", "Deduction", "Salary Total",
	"TDS", "Gross", "Advance", "Net Payment",
}

// ExportPayroll implements PayrollHandler
func (h *payrollHandlerImpl) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.payrollService.GeneratePayroll(r.Context(), payroll.GeneratePayrollRequest{BSYear: year, BSMonth: month})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows := make([][]any, 0, len(report.Rows)+1)
	for _, row := range report.Rows {
		rows = append(rows, []any{
			row.EmployeeName, row.WageBasis, row.WageAmount.InexactFloat64(),
			row.RegularHours.InexactFloat64(), row.OvertimeHours.InexactFloat64(), row.AbsentDays,
			row.RegularPay.InexactFloat64(), row.OvertimePay.InexactFloat64(), row.TotalPay.InexactFloat64(),
			row.Allowance.InexactFloat64(), row.Deduction.InexactFloat64(), row.SalaryTotal.InexactFloat64(),
			row.TDS.InexactFloat64(), row.Gross.InexactFloat64(), row.Advance.InexactFloat64(), row.NetPayment.InexactFloat64(),
		})
	}
	t := report.Totals
	rows = append(rows, []any{
		"Total", "", "", "", "", "",
		t.RegularPay.InexactFloat64(), t.OvertimePay.InexactFloat64(), t.TotalPay.InexactFloat64(),
		t.Allowance.InexactFloat64(), t.Deduction.InexactFloat64(), t.SalaryTotal.InexactFloat64(),
		t.TDS.InexactFloat64(), t.Gross.InexactFloat64(), t.Advance.InexactFloat64(), t.NetPayment.InexactFloat64(),
	})

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, "Payroll", payrollExportHeader, rows); err != nil {
		slog.Error("Failed to render payroll workbook", "bs_year", year, "bs_month", month+1, "error", err)
		response.InternalServerError(w, "Failed to render payroll workbook")
		return
	}

	filename := fmt.Sprintf("payroll-%s-%d.xlsx", report.MonthName, report.BSYear)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
