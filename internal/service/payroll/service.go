package payroll

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/payroll"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
	}
}

// GeneratePayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollReportResponse{}, err
	}
	return s.generate(ctx, req.BSYear, req.BSMonth)
}

// AdjustPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) AdjustPayroll(ctx context.Context, req payroll.AdjustPayrollRequest) (payroll.PayrollReportResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollReportResponse{}, err
	}

	report, err := s.generate(ctx, req.BSYear, req.BSMonth)
	if err != nil {
		return payroll.PayrollReportResponse{}, err
	}

	for _, adj := range req.Adjustments {
		if err := QuickAdjust(report.Rows, adj.EmployeeID, adj.Allowance, adj.Advance); err != nil {
			return payroll.PayrollReportResponse{}, err
		}
	}
	report.Totals = payroll.SumRows(report.Rows)
	return report, nil
}

func (s *PayrollServiceImpl) generate(ctx context.Context, bsYear, bsMonth int) (payroll.PayrollReportResponse, error) {
	first, last, err := bsdate.MonthRange(bsYear, bsMonth)
	if err != nil {
		return payroll.PayrollReportResponse{}, err
	}

	var (
		employees []employee.Employee
		records   []attendance.AttendanceRecord
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx, employee.EmployeeFilter{})
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		employees = list
		return nil
	})

	g.Go(func() error {
		list, err := s.attendanceRepo.ListByDateRange(gCtx, first, last)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return payroll.PayrollReportResponse{}, err
	}

	rows, err := Generate(bsYear, bsMonth, employees, records)
	if err != nil {
		return payroll.PayrollReportResponse{}, err
	}

	days, _ := bsdate.DaysInMonth(bsYear, bsMonth)
	return payroll.PayrollReportResponse{
		BSYear:      bsYear,
		BSMonth:     bsMonth + 1,
		MonthName:   bsdate.MonthNames[bsMonth],
		DaysInMonth: days,
		Rows:        rows,
		Totals:      payroll.SumRows(rows),
	}, nil
}
