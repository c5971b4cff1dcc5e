package attendance

import (
	"strings"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
)

// NormalizeStatus picks one status for a row. The first matching rule wins, so explicit
// absence and holidays beat Saturday, and Saturday beats any other raw text or punches.
func NormalizeStatus(raw string, grossHours float64, isSaturday, hasClockIn, hasClockOut bool) attendance.Status {
	text := strings.ToUpper(strings.TrimSpace(raw))

	switch {
	case text == "ABSENT" || text == "TRUE" || text == "A":
		return attendance.StatusAbsent
	case strings.HasPrefix(text, "PUBLIC"):
		return attendance.StatusPublicHoliday
	case isSaturday:
		return attendance.StatusSaturday
	case text == "C/I MISS":
		return attendance.StatusClockInMiss
	case text == "C/O MISS":
		return attendance.StatusClockOutMiss
	case text == "EXTRAOK":
		return attendance.StatusExtraOK
	case grossHours > 0:
		return attendance.StatusPresent
	case !hasClockIn && !hasClockOut:
		return attendance.StatusAbsent
	case !hasClockIn:
		return attendance.StatusClockInMiss
	case !hasClockOut:
		return attendance.StatusClockOutMiss
	}
	return attendance.StatusPresent
}
