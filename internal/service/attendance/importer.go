package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
)

// Provisioner creates an employee unless one with the same normalized name exists.
// It reports whether this call created it.
type Provisioner interface {
	Provision(ctx context.Context, name string, createdBy string) (employee.Employee, bool, error)
}

// ImportResult is the outcome of normalizing one spreadsheet.
type ImportResult struct {
	Records          []attendance.AttendanceRecord
	NewEmployees     []employee.Employee
	NewEmployeeNames []string
	// Skipped counts rows whose day does not exist in the month.
	Skipped int
	// Failed counts rows dropped because their employee could not be provisioned.
	Failed int
}

// Importer turns spreadsheet rows into attendance records.
type Importer struct {
	provisioner Provisioner
}

func NewImporter(provisioner Provisioner) *Importer {
	return &Importer{provisioner: provisioner}
}

type pendingRow struct {
	row  []any
	name string
	key  string
	date bsdate.Resolved
}

// Process maps the header, provisions every unknown employee once and then builds one record
// per usable row. The roster is read, never modified; new employees are returned in the result.
func (im *Importer) Process(ctx context.Context, req attendance.ImportRequest, roster []employee.Employee) (ImportResult, error) {
	cols := mapHeader(req.Header)
	if !cols.has(colName) {
		return ImportResult{}, attendance.ErrMissingNameColumn
	}

	known := employee.NewRoster(roster)
	var result ImportResult

	// Phase 1: resolve dates and collect unknown names.
	pending := make([]pendingRow, 0, len(req.Rows))
	var unknown []string
	seen := map[string]bool{}

	for i, row := range req.Rows {
		name := cols.text(row, colName)
		if name == "" {
			continue
		}

		day := i + 1
		if f, ok := cellNumber(cols.raw(row, colDay)); ok {
			day = 0
			if f == math.Trunc(f) {
				day = int(f)
			}
		}

		resolved, err := bsdate.Resolve(req.BSYear, req.BSMonth, day)
		if err != nil {
			result.Skipped++
			continue
		}

		key := employee.NameKey(name)
		pending = append(pending, pendingRow{row: row, name: name, key: key, date: resolved})

		if _, ok := known.Lookup(name); !ok && !seen[key] {
			seen[key] = true
			unknown = append(unknown, name)
		}
	}

	// Provision each unknown name once.
	failed := map[string]bool{}
	for _, name := range unknown {
		if err := ctx.Err(); err != nil {
			return ImportResult{}, err
		}

		emp, created, err := im.provisioner.Provision(ctx, name, req.ImportedBy)
		if err != nil {
			slog.Error("employee provisioning failed", "name", name, "error", err)
			failed[employee.NameKey(name)] = true
			continue
		}

		known.Add(emp)
		if created {
			result.NewEmployees = append(result.NewEmployees, emp)
			result.NewEmployeeNames = append(result.NewEmployeeNames, emp.Name)
		}
	}

	// Phase 2: build records against the complete roster.
	result.Records = make([]attendance.AttendanceRecord, 0, len(pending))
	for _, p := range pending {
		if failed[p.key] {
			result.Failed++
			continue
		}

		emp, ok := known.Lookup(p.name)
		if !ok {
			return ImportResult{}, fmt.Errorf("employee %q missing from roster after provisioning", p.name)
		}
		result.Records = append(result.Records, buildRecord(cols, p, emp, req.ImportedBy))
	}

	return result, nil
}

func buildRecord(cols columnMap, p pendingRow, emp employee.Employee, importedBy string) attendance.AttendanceRecord {
	gross, regular, overtime := reconcileHours(
		cols.number(p.row, colTotalHours),
		cols.number(p.row, colNormalHours),
		cols.number(p.row, colOTHours),
	)

	clockIn := ParseTime(cols.raw(p.row, colClockIn))
	clockOut := ParseTime(cols.raw(p.row, colClockOut))

	remarks := cols.text(p.row, colRemarks)
	if !cols.has(colRemarks) {
		remarks = cols.text(p.row, colRemark)
	}

	var figures map[string]float64
	for _, c := range figureColumns {
		if f, ok := cellNumber(cols.raw(p.row, c)); ok && f != 0 {
			if figures == nil {
				figures = map[string]float64{}
			}
			figures[c] = f
		}
	}

	employeeID := emp.ID
	return attendance.AttendanceRecord{
		Date:            p.date.Gregorian,
		NepaliDate:      p.date.NepaliDate,
		EmployeeID:      &employeeID,
		EmployeeName:    emp.Name,
		OnDuty:          ParseTime(cols.raw(p.row, colOnDuty)),
		OffDuty:         ParseTime(cols.raw(p.row, colOffDuty)),
		ClockIn:         clockIn,
		ClockOut:        clockOut,
		Status:          NormalizeStatus(cols.text(p.row, colStatus), gross, p.date.IsSaturday, clockIn != nil, clockOut != nil),
		GrossHours:      gross,
		RegularHours:    regular,
		OvertimeHours:   overtime,
		Remarks:         remarks,
		ImportedFigures: figures,
		ImportedBy:      importedBy,
	}
}
