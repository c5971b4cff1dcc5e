package attendance

import (
	"math"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
)

// reconcileHours derives gross, regular and overtime hours so that regular + overtime == gross.
// An explicit total wins; otherwise gross is normal + overtime. Without a split the first
// standard shift is regular. When the split disagrees with the total, overtime absorbs the
// difference.
func reconcileHours(total, normal, overtime float64) (gross, regular, ot float64) {
	total, normal, overtime = math.Max(total, 0), math.Max(normal, 0), math.Max(overtime, 0)

	gross = total
	if gross == 0 {
		gross = normal + overtime
	}

	switch {
	case normal == 0 && overtime == 0:
		regular = math.Min(gross, attendance.StandardShiftHours)
		ot = gross - regular
	case math.Abs(normal+overtime-gross) > 0.005:
		ot = math.Max(gross-normal, 0)
		regular = gross - ot
	default:
		regular, ot = normal, overtime
	}

	// Overtime is taken from the rounded figures so the parts still add up to gross.
	gross, regular = round2(gross), round2(regular)
	return gross, regular, round2(gross - regular)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
