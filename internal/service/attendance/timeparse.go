package attendance

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// Tried in order after the plain H:mm form. Input is upper-cased first so am/pm match.
var timeLayouts = []string{
	"3:04:05 PM",
	"3:04 PM",
	"15:04:05",
	"15:04",
	"3:04",
}

// ParseTime converts a spreadsheet cell into an HH:mm string. It returns nil for anything
// it cannot read, which callers treat as a missing punch.
func ParseTime(raw any) *string {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return hhmm(v.Hour(), v.Minute())
	case *time.Time:
		if v == nil {
			return nil
		}
		return ParseTime(*v)
	case float64:
		return fromDayFraction(v)
	case float32:
		return fromDayFraction(float64(v))
	case string:
		return parseTimeString(v)
	case fmt.Stringer:
		return parseTimeString(v.String())
	}
	return nil
}

func parseTimeString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromDayFraction(f)
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return hhmm(hour, minute)
		}
		return nil
	}

	upper := strings.ToUpper(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return hhmm(t.Hour(), t.Minute())
		}
	}
	return nil
}

// fromDayFraction reads a spreadsheet time serial: 0.5 is noon.
func fromDayFraction(f float64) *string {
	if math.IsNaN(f) || f <= 0 || f >= 1 {
		return nil
	}
	seconds := int(math.Round(f * 86400))
	minutes := (seconds / 60) % 1440
	return hhmm(minutes/60, minutes%60)
}

func hhmm(hour, minute int) *string {
	s := fmt.Sprintf("%02d:%02d", hour, minute)
	return &s
}

// minutesOfDay converts an HH:mm string back to minutes since midnight.
func minutesOfDay(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
