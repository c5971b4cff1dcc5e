package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/factory-erp-go/internal/handler/http/response"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/sse"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// Events published to the importing user's SSE streams.
const (
	EventImportProgress = "import.progress"
	EventImportDone     = "import.done"
	EventImportFailed   = "import.failed"
)

type AttendanceHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	hub               *sse.Hub
	maxUploadBytes    int64
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, hub *sse.Hub, maxUploadBytes int64) AttendanceHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		hub:               hub,
		maxUploadBytes:    maxUploadBytes,
	}
}

// Import implements AttendanceHandler.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	year, month, err := periodFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Attendance spreadsheet is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		response.BadRequest(w, "Only .xlsx spreadsheets are supported", nil)
		return
	}

	header, rows, err := spreadsheet.Read(file, r.FormValue("sheet"))
	if err != nil {
		slog.Warn("Unreadable attendance spreadsheet", "file", fileHeader.Filename, "error", err)
		if errors.Is(err, spreadsheet.ErrSheetNotFound) || errors.Is(err, spreadsheet.ErrNoHeader) {
			response.HandleError(w, err)
			return
		}
		response.BadRequest(w, "File is not a readable .xlsx workbook", nil)
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	importedBy := identity.Name
	if importedBy == "" {
		importedBy = identity.UserID
	}

	req := attendance.ImportRequest{
		BSYear:     year,
		BSMonth:    month,
		Header:     header,
		Rows:       rows,
		ImportedBy: importedBy,
		Source:     fileHeader.Filename,
	}

	summary, err := h.attendanceService.Import(r.Context(), req, func(p attendance.ImportProgress) {
		h.hub.Publish(identity.UserID, EventImportProgress, p)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrBatchWriteFailed) {
			h.hub.Publish(identity.UserID, EventImportFailed, summary)
			slog.Error("Attendance import aborted", "import_id", summary.ImportID, "error", err)
			response.ErrorWithData(w, http.StatusInternalServerError, "IMPORT_FAILED",
				"Import stopped after a failed batch; earlier batches were saved", summary)
			return
		}
		response.HandleError(w, err)
		return
	}

	h.hub.Publish(identity.UserID, EventImportDone, summary)
	response.Created(w, "Attendance imported successfully", summary)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := attendance.AttendanceFilter{}

	if q.Get("bs_year") != "" || q.Get("bs_month") != "" {
		year, month, err := periodFrom(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.BSYear, filter.BSMonth = &year, &month
	}

	if employeeName := q.Get("employee_name"); employeeName != "" {
		filter.EmployeeName = &employeeName
	}

	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}

	var dateErrs validator.ValidationErrors
	if v := q.Get("start_date"); v != "" {
		if d, ok := validator.IsValidDate(v); ok {
			filter.StartDate = &d
		} else {
			dateErrs = append(dateErrs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if v := q.Get("end_date"); v != "" {
		if d, ok := validator.IsValidDate(v); ok {
			filter.EndDate = &d
		} else {
			dateErrs = append(dateErrs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if len(dateErrs) > 0 {
		response.HandleError(w, dateErrs)
		return
	}

	filter.Page = queryInt(r, "page", 1)
	filter.Limit = queryInt(r, "limit", 50)
	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")

	results, err := h.attendanceService.ListAttendance(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{
		Page:       results.Page,
		Limit:      results.Limit,
		TotalItems: results.TotalCount,
		TotalPages: results.TotalPages,
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}
