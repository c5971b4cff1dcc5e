package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
)

// ========== IMPORT DTOs ==========

// ImportRequest carries one externally parsed spreadsheet covering a single Nepali month.
type ImportRequest struct {
	BSYear     int
	BSMonth    int // 0-based
	Header     []string
	Rows       [][]any
	ImportedBy string
	Source     string
}

func (r *ImportRequest) Validate() error {
	errs := validator.ValidatePeriod(r.BSYear, r.BSMonth)
	if len(r.Header) == 0 {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "has no header row"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportSummary is reported back to the uploader in a single notification.
type ImportSummary struct {
	ImportID         string   `json:"import_id"`
	Imported         int      `json:"imported"`
	NewEmployees     int      `json:"new_employees"`
	NewEmployeeNames []string `json:"new_employee_names"`
	Skipped          int      `json:"skipped"`
	Failed           int      `json:"failed"`
	Batches          int      `json:"batches"`
}

// ImportProgress is emitted after each committed batch.
type ImportProgress struct {
	ImportID     string `json:"import_id"`
	Batch        int    `json:"batch"`
	TotalBatches int    `json:"total_batches"`
	Written      int    `json:"written"`
	Total        int    `json:"total"`
}

type ProgressFunc func(ImportProgress)

// ========== QUERY DTOs ==========

type AttendanceFilter struct {
	BSYear       *int
	BSMonth      *int // 0-based
	StartDate    *time.Time
	EndDate      *time.Time
	EmployeeName *string
	Status       *string
	Page         int
	Limit        int
	SortBy       string
	SortOrder    string
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if (f.BSYear == nil) != (f.BSMonth == nil) {
		errs = append(errs, validator.ValidationError{Field: "bs_month", Message: "bs_year and bs_month must be given together"})
	}
	if f.BSYear != nil && f.BSMonth != nil {
		errs = append(errs, validator.ValidatePeriod(*f.BSYear, *f.BSMonth)...)
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"date", "employee_name", "status", "gross_hours"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "must be one of date, employee_name, status, gross_hours"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAttendanceRequest struct {
	ID            string   `json:"-"`
	OnDuty        *string  `json:"on_duty,omitempty"`
	OffDuty       *string  `json:"off_duty,omitempty"`
	ClockIn       *string  `json:"clock_in,omitempty"`
	ClockOut      *string  `json:"clock_out,omitempty"`
	Status        *string  `json:"status,omitempty"`
	GrossHours    *float64 `json:"gross_hours,omitempty"`
	RegularHours  *float64 `json:"regular_hours,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	Remarks       *string  `json:"remarks,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, v := range map[string]*float64{
		"gross_hours":    r.GrossHours,
		"regular_hours":  r.RegularHours,
		"overtime_hours": r.OvertimeHours,
	} {
		if v != nil && (*v < 0 || *v > 24) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be between 0 and 24"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type AttendanceResponse struct {
	ID              string             `json:"id"`
	Date            string             `json:"date"`
	NepaliDate      string             `json:"nepali_date"`
	EmployeeID      *string            `json:"employee_id,omitempty"`
	EmployeeName    string             `json:"employee_name"`
	OnDuty          *string            `json:"on_duty"`
	OffDuty         *string            `json:"off_duty"`
	ClockIn         *string            `json:"clock_in"`
	ClockOut        *string            `json:"clock_out"`
	Status          string             `json:"status"`
	GrossHours      float64            `json:"gross_hours"`
	RegularHours    float64            `json:"regular_hours"`
	OvertimeHours   float64            `json:"overtime_hours"`
	Remarks         string             `json:"remarks,omitempty"`
	ImportedFigures map[string]float64 `json:"imported_figures,omitempty"`
	ImportedBy      string             `json:"imported_by"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// Hours are stored with two decimals and shown with one.
func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

func ToResponse(r AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:              r.ID,
		Date:            r.Date.Format("2006-01-02"),
		NepaliDate:      r.NepaliDate,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		OnDuty:          r.OnDuty,
		OffDuty:         r.OffDuty,
		ClockIn:         r.ClockIn,
		ClockOut:        r.ClockOut,
		Status:          string(r.Status),
		GrossHours:      roundHours(r.GrossHours),
		RegularHours:    roundHours(r.RegularHours),
		OvertimeHours:   roundHours(r.OvertimeHours),
		Remarks:         r.Remarks,
		ImportedFigures: r.ImportedFigures,
		ImportedBy:      r.ImportedBy,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}
