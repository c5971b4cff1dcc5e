package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// CreateBatch writes records in one transaction, replacing any existing record for the
	// same employee and day. It returns the number of records written.
	CreateBatch(ctx context.Context, records []AttendanceRecord) (int, error)

	// GetByID retrieves a single record
	GetByID(ctx context.Context, id string) (AttendanceRecord, error)

	// ListByDateRange returns every record with from <= date <= to, ordered by date
	ListByDateRange(ctx context.Context, from, to time.Time) ([]AttendanceRecord, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, int64, error)

	// Update overwrites the editable fields of a record
	Update(ctx context.Context, record AttendanceRecord) error

	// Delete removes a record
	Delete(ctx context.Context, id string) error
}
