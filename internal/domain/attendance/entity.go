package attendance

import (
	"strings"
	"time"
)

// AttendanceRecord is one employee's attendance for one calendar day.
type AttendanceRecord struct {
	ID              string
	Date            time.Time
	NepaliDate      string
	EmployeeID      *string
	EmployeeName    string
	OnDuty          *string
	OffDuty         *string
	ClockIn         *string
	ClockOut        *string
	Status          Status
	GrossHours      float64
	RegularHours    float64
	OvertimeHours   float64
	Remarks         string
	ImportedFigures map[string]float64
	ImportedBy      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StandardShiftHours is the regular working day. Hours beyond it count as overtime.
const StandardShiftHours = 8.0

type Status string

const (
	StatusPresent       Status = "Present"
	StatusAbsent        Status = "Absent"
	StatusClockInMiss   Status = "C/I Miss"
	StatusClockOutMiss  Status = "C/O Miss"
	StatusSaturday      Status = "Saturday"
	StatusPublicHoliday Status = "Public Holiday"
	StatusExtraOK       Status = "EXTRAOK"
)

// IsAbsence reports whether the status counts as an unpaid absence for payroll.
// Raw "TRUE" is accepted for rows stored verbatim by older imports.
func (s Status) IsAbsence() bool {
	switch strings.ToUpper(strings.TrimSpace(string(s))) {
	case "ABSENT", "C/I MISS", "C/O MISS", "TRUE":
		return true
	}
	return false
}

// IsScheduled reports whether the day was a working day.
func (s Status) IsScheduled() bool {
	return s != StatusSaturday && s != StatusPublicHoliday
}

// IsPresent reports whether the employee attended.
func (s Status) IsPresent() bool {
	return s == StatusPresent || s == StatusExtraOK
}
