package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/validator"
)

const (
	colName        = "name"
	colDateAD      = "date (ad)"
	colBSDate      = "bs date"
	colOnDuty      = "on duty"
	colOffDuty     = "off duty"
	colClockIn     = "clock in"
	colClockOut    = "clock out"
	colStatus      = "status"
	colNormalHours = "normal hours"
	colOTHours     = "ot hours"
	colTotalHours  = "total hours"
	colRemarks     = "remarks"
	colRemark      = "remark"
	colDay         = "day"
	colRate        = "rate"
)

// Payroll columns exported by the time clock. Their numeric values travel with the record.
var figureColumns = []string{
	"norman",
	"ot pay",
	"total pay",
	"absent days",
	"deduction",
	"extra",
	"bonus",
	"salary total",
	"tds",
	"gross",
	"advance",
	colRate,
}

var knownColumns = func() map[string]bool {
	m := map[string]bool{}
	for _, c := range []string{
		colName, colDateAD, colBSDate, colOnDuty, colOffDuty, colClockIn, colClockOut,
		colStatus, colNormalHours, colOTHours, colTotalHours, colRemarks, colRemark, colDay,
	} {
		m[c] = true
	}
	for _, c := range figureColumns {
		m[c] = true
	}
	return m
}()

// columnMap maps a recognised header to its column index.
type columnMap map[string]int

// mapHeader matches header cells against the fixed vocabulary after trimming and lower-casing.
// Unknown headers are ignored and the first occurrence of a duplicate wins.
func mapHeader(header []string) columnMap {
	cols := columnMap{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if !knownColumns[key] {
			continue
		}
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}
	return cols
}

func (c columnMap) has(col string) bool {
	_, ok := c[col]
	return ok
}

func (c columnMap) raw(row []any, col string) any {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

func (c columnMap) text(row []any, col string) string {
	return cellText(c.raw(row, col))
}

// number reads a numeric cell. Missing or malformed values read as zero.
func (c columnMap) number(row []any, col string) float64 {
	f, _ := cellNumber(c.raw(row, col))
	return f
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case time.Time:
		return x.Format("2006-01-02 15:04")
	case float64:
		if x == math.Trunc(x) {
			return fmt.Sprintf("%.0f", x)
		}
		return fmt.Sprintf("%g", x)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func cellNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		return validator.ParseFloat(x)
	}
	return 0, false
}
