package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, date, nepali_date, employee_id, employee_name, on_duty, off_duty, clock_in, clock_out,
	status, gross_hours, regular_hours, overtime_hours, remarks, imported_figures, imported_by, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var a attendance.AttendanceRecord
	err := row.Scan(
		&a.ID,
		&a.Date,
		&a.NepaliDate,
		&a.EmployeeID,
		&a.EmployeeName,
		&a.OnDuty,
		&a.OffDuty,
		&a.ClockIn,
		&a.ClockOut,
		&a.Status,
		&a.GrossHours,
		&a.RegularHours,
		&a.OvertimeHours,
		&a.Remarks,
		&a.ImportedFigures,
		&a.ImportedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

const upsertAttendanceQuery = `
	INSERT INTO attendance_records (
		id, date, nepali_date, employee_id, employee_name, employee_name_key,
		on_duty, off_duty, clock_in, clock_out, status,
		gross_hours, regular_hours, overtime_hours, remarks, imported_figures, imported_by
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (employee_name_key, date) DO UPDATE SET
		nepali_date = EXCLUDED.nepali_date,
		employee_id = EXCLUDED.employee_id,
		employee_name = EXCLUDED.employee_name,
		on_duty = EXCLUDED.on_duty,
		off_duty = EXCLUDED.off_duty,
		clock_in = EXCLUDED.clock_in,
		clock_out = EXCLUDED.clock_out,
		status = EXCLUDED.status,
		gross_hours = EXCLUDED.gross_hours,
		regular_hours = EXCLUDED.regular_hours,
		overtime_hours = EXCLUDED.overtime_hours,
		remarks = EXCLUDED.remarks,
		imported_figures = EXCLUDED.imported_figures,
		imported_by = EXCLUDED.imported_by,
		updated_at = NOW()`

// CreateBatch implements attendance.AttendanceRepository.
func (r *attendanceRepository) CreateBatch(ctx context.Context, records []attendance.AttendanceRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		batch := &pgx.Batch{}
		for _, rec := range records {
			id := rec.ID
			if id == "" {
				id = uuid.Must(uuid.NewV7()).String()
			}
			batch.Queue(upsertAttendanceQuery,
				id,
				rec.Date,
				rec.NepaliDate,
				rec.EmployeeID,
				rec.EmployeeName,
				employee.NameKey(rec.EmployeeName),
				rec.OnDuty,
				rec.OffDuty,
				rec.ClockIn,
				rec.ClockOut,
				string(rec.Status),
				rec.GrossHours,
				rec.RegularHours,
				rec.OvertimeHours,
				rec.Remarks,
				rec.ImportedFigures,
				rec.ImportedBy,
			)
		}

		br := q.SendBatch(txCtx, batch)
		for i := range records {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to write attendance for %s on %s: %w",
					records[i].EmployeeName, records[i].Date.Format("2006-01-02"), err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`
	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance by id %s: %w", id, err)
	}
	return a, nil
}

// ListByDateRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, employee_name ASC`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date range: %w", err)
	}
	return collectAttendance(rows)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		baseWhere += fmt.Sprintf(" AND employee_name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}
	orderBy := "date " + sortOrder + ", employee_name ASC"
	switch filter.SortBy {
	case "employee_name":
		orderBy = "employee_name " + sortOrder + ", date ASC"
	case "status":
		orderBy = "status " + sortOrder + ", date ASC"
	case "gross_hours":
		orderBy = "gross_hours " + sortOrder + ", date ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM attendance_records %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		attendanceColumns, baseWhere, orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	records, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func collectAttendance(rows pgx.Rows) ([]attendance.AttendanceRecord, error) {
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records SET
			on_duty = $1,
			off_duty = $2,
			clock_in = $3,
			clock_out = $4,
			status = $5,
			gross_hours = $6,
			regular_hours = $7,
			overtime_hours = $8,
			remarks = $9,
			updated_at = NOW()
		WHERE id = $10`

	tag, err := q.Exec(ctx, query,
		record.OnDuty,
		record.OffDuty,
		record.ClockIn,
		record.ClockOut,
		string(record.Status),
		record.GrossHours,
		record.RegularHours,
		record.OvertimeHours,
		record.Remarks,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
