package attendance

import "errors"

// Attendance domain errors
var (
	// Import errors
	ErrMissingNameColumn = errors.New("spreadsheet header has no 'name' column")
	ErrEmptySpreadsheet  = errors.New("spreadsheet has no rows")
	ErrBatchWriteFailed  = errors.New("attendance batch write failed")
	ErrImportInProgress  = errors.New("another attendance import is in progress")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidTime        = errors.New("time must be HH:mm")
)
