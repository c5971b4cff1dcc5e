package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/lock"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const provisionLockKey = "attendance:provision"

// CacheInvalidator drops derived data for a Nepali month after its attendance changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, bsYear, bsMonth int) error
}

type ImportConfig struct {
	BatchSize int
	LockTTL   time.Duration
	LockWait  time.Duration
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	importer       *Importer
	locker         lock.Locker
	invalidator    CacheInvalidator
	cfg            ImportConfig
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	provisioner Provisioner,
	locker lock.Locker,
	invalidator CacheInvalidator,
	cfg ImportConfig,
) attendance.AttendanceService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 400
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = time.Minute
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		importer:       NewImporter(provisioner),
		locker:         locker,
		invalidator:    invalidator,
		cfg:            cfg,
	}
}

// Import implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Import(ctx context.Context, req attendance.ImportRequest, progress attendance.ProgressFunc) (attendance.ImportSummary, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportSummary{}, err
	}
	if len(req.Rows) == 0 {
		return attendance.ImportSummary{}, attendance.ErrEmptySpreadsheet
	}

	result, err := s.processLocked(ctx, req)
	if err != nil {
		return attendance.ImportSummary{}, err
	}

	summary := attendance.ImportSummary{
		ImportID:         uuid.New().String(),
		NewEmployees:     len(result.NewEmployees),
		NewEmployeeNames: result.NewEmployeeNames,
		Skipped:          result.Skipped,
		Failed:           result.Failed,
	}
	if summary.NewEmployeeNames == nil {
		summary.NewEmployeeNames = []string{}
	}

	// Batches commit one after another. A failed batch leaves the earlier ones in place.
	chunks := chunkRecords(result.Records, s.cfg.BatchSize)
	for i, chunk := range chunks {
		written, err := s.attendanceRepo.CreateBatch(ctx, chunk)
		if err != nil {
			slog.Error("Attendance batch write failed",
				"import_id", summary.ImportID,
				"batch", i+1,
				"total_batches", len(chunks),
				"error", err,
			)
			s.invalidate(ctx, req.BSYear, req.BSMonth)
			return summary, fmt.Errorf("%w: batch %d of %d: %w", attendance.ErrBatchWriteFailed, i+1, len(chunks), err)
		}

		summary.Imported += written
		summary.Batches++

		if progress != nil {
			progress(attendance.ImportProgress{
				ImportID:     summary.ImportID,
				Batch:        i + 1,
				TotalBatches: len(chunks),
				Written:      summary.Imported,
				Total:        len(result.Records),
			})
		}
	}

	s.invalidate(ctx, req.BSYear, req.BSMonth)

	slog.Info("Attendance import completed",
		"import_id", summary.ImportID,
		"source", req.Source,
		"bs_year", req.BSYear,
		"bs_month", req.BSMonth+1,
		"imported", summary.Imported,
		"new_employees", summary.NewEmployees,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// processLocked runs the pipeline while holding the provisioning lock so that two imports
// never race to create the same employee.
func (s *AttendanceServiceImpl) processLocked(ctx context.Context, req attendance.ImportRequest) (ImportResult, error) {
	lk, err := s.locker.Obtain(ctx, provisionLockKey, s.cfg.LockTTL, s.cfg.LockWait)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return ImportResult{}, attendance.ErrImportInProgress
		}
		return ImportResult{}, fmt.Errorf("failed to obtain import lock: %w", err)
	}
	defer func() {
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release import lock", "error", err)
		}
	}()

	roster, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to load employee roster: %w", err)
	}

	return s.importer.Process(ctx, req, roster)
}

func chunkRecords(records []attendance.AttendanceRecord, size int) [][]attendance.AttendanceRecord {
	if size <= 0 {
		size = len(records)
	}
	var chunks [][]attendance.AttendanceRecord
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

func (s *AttendanceServiceImpl) invalidate(ctx context.Context, bsYear, bsMonth int) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, bsYear, bsMonth); err != nil {
		slog.Warn("failed to invalidate analytics cache", "bs_year", bsYear, "bs_month", bsMonth+1, "error", err)
	}
}

func (s *AttendanceServiceImpl) invalidateDate(ctx context.Context, date time.Time) {
	d, err := bsdate.FromGregorian(date)
	if err != nil {
		return
	}
	s.invalidate(ctx, d.Year, d.Month)
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 50
	}
	if filter.BSYear != nil && filter.BSMonth != nil {
		first, last, err := bsdate.MonthRange(*filter.BSYear, *filter.BSMonth)
		if err != nil {
			return attendance.ListAttendanceResponse{}, err
		}
		filter.StartDate, filter.EndDate = &first, &last
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(record), nil
}

// UpdateAttendance implements attendance.AttendanceService.
// Times are re-parsed and hours re-reconciled. The status is re-derived only when it is
// restated or a punch or hours field changed.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var errs validator.ValidationErrors
	for _, f := range []struct {
		field string
		in    *string
		out   **string
	}{
		{"on_duty", req.OnDuty, &record.OnDuty},
		{"off_duty", req.OffDuty, &record.OffDuty},
		{"clock_in", req.ClockIn, &record.ClockIn},
		{"clock_out", req.ClockOut, &record.ClockOut},
	} {
		if f.in == nil {
			continue
		}
		if strings.TrimSpace(*f.in) == "" || strings.TrimSpace(*f.in) == "-" {
			*f.out = nil
			continue
		}
		parsed := ParseTime(*f.in)
		if parsed == nil {
			errs = append(errs, validator.ValidationError{Field: f.field, Message: attendance.ErrInvalidTime.Error()})
			continue
		}
		*f.out = parsed
	}
	if len(errs) > 0 {
		return attendance.AttendanceResponse{}, errs
	}

	if req.GrossHours != nil || req.RegularHours != nil || req.OvertimeHours != nil {
		total := valueOr(req.GrossHours, record.GrossHours)
		normal := valueOr(req.RegularHours, record.RegularHours)
		overtime := valueOr(req.OvertimeHours, record.OvertimeHours)
		switch {
		case req.GrossHours == nil:
			total = normal + overtime
		case req.RegularHours == nil && req.OvertimeHours == nil:
			// A new total alone is split again at the standard shift.
			normal, overtime = 0, 0
		}
		record.GrossHours, record.RegularHours, record.OvertimeHours = reconcileHours(total, normal, overtime)
	}

	if req.Remarks != nil {
		record.Remarks = strings.TrimSpace(*req.Remarks)
	}

	// The stored status stands unless it is restated or a punch or hours field changed.
	punchesChanged := req.OnDuty != nil || req.OffDuty != nil || req.ClockIn != nil || req.ClockOut != nil ||
		req.GrossHours != nil || req.RegularHours != nil || req.OvertimeHours != nil
	switch {
	case req.Status != nil:
		record.Status = NormalizeStatus(*req.Status, record.GrossHours, record.Date.Weekday() == time.Saturday, record.ClockIn != nil, record.ClockOut != nil)
	case punchesChanged:
		// Holidays and approved extra days cannot be inferred from punches.
		raw := ""
		if record.Status == attendance.StatusPublicHoliday || record.Status == attendance.StatusExtraOK {
			raw = string(record.Status)
		}
		record.Status = NormalizeStatus(raw, record.GrossHours, record.Date.Weekday() == time.Saturday, record.ClockIn != nil, record.ClockOut != nil)
	}

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	s.invalidateDate(ctx, record.Date)

	updated, err := s.attendanceRepo.GetByID(ctx, record.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(updated), nil
}

func valueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	s.invalidateDate(ctx, record.Date)
	return nil
}
