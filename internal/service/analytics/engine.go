package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/factory-erp-go/internal/domain/analytics"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/attendance"
	"github.com/cmlabs-hris/factory-erp-go/internal/domain/employee"
	"github.com/cmlabs-hris/factory-erp-go/internal/pkg/bsdate"
)

// Working days of the six-day week, in display order.
var workWeek = []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// Compute derives punctuality, workforce, behaviour, weekday and pattern analytics for the
// Working employees of a Nepali month. It performs no I/O.
func Compute(bsYear, bsMonth int, employees []employee.Employee, records []attendance.AttendanceRecord, th analytics.Thresholds) (analytics.Bundle, error) {
	if _, err := bsdate.DaysInMonth(bsYear, bsMonth); err != nil {
		return analytics.Bundle{}, fmt.Errorf("invalid analytics period: %w", err)
	}

	roster := employee.NewRoster(employees)
	inMonth := make([]attendance.AttendanceRecord, 0, len(records))
	byEmployee := map[string][]attendance.AttendanceRecord{}
	for _, r := range records {
		if !bsdate.InMonth(r.Date, bsYear, bsMonth) {
			continue
		}
		inMonth = append(inMonth, r)
		if id, ok := ownerOf(roster, r); ok {
			byEmployee[id] = append(byEmployee[id], r)
		}
	}

	working := make([]employee.Employee, 0, len(employees))
	for _, e := range employees {
		if e.EmploymentStatus == employee.EmploymentStatusWorking {
			working = append(working, e)
		}
	}
	sort.SliceStable(working, func(i, j int) bool { return working[i].Name < working[j].Name })

	bundle := analytics.Bundle{
		BSYear:      bsYear,
		BSMonth:     bsMonth + 1,
		MonthName:   bsdate.MonthNames[bsMonth],
		Punctuality: make([]analytics.PunctualityInsight, 0, len(working)),
		Workforce:   make([]analytics.WorkforceAnalytics, 0, len(working)),
		Behavior:    make([]analytics.BehaviorInsight, 0, len(working)),
	}

	for _, e := range working {
		own := byEmployee[e.ID]
		sort.SliceStable(own, func(i, j int) bool { return own[i].Date.Before(own[j].Date) })

		p, w := summarize(e, own, th)
		bundle.Punctuality = append(bundle.Punctuality, p)
		bundle.Workforce = append(bundle.Workforce, w)
		bundle.Behavior = append(bundle.Behavior, classify(p, w, th))
	}

	bundle.DayOfWeek = dayOfWeek(inMonth, th)
	bundle.Patterns = patterns(bundle)
	return bundle, nil
}

func ownerOf(roster *employee.Roster, r attendance.AttendanceRecord) (string, bool) {
	if r.EmployeeID != nil {
		if _, ok := roster.ByID(*r.EmployeeID); ok {
			return *r.EmployeeID, true
		}
	}
	if e, ok := roster.Lookup(r.EmployeeName); ok {
		return e.ID, true
	}
	return "", false
}

// minutesPast returns how many minutes b is after a, when both are known.
func minutesPast(a, b *string) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	am, ok := minutesOfDay(*a)
	if !ok {
		return 0, false
	}
	bm, ok := minutesOfDay(*b)
	if !ok {
		return 0, false
	}
	return bm - am, true
}

func minutesOfDay(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func isLate(r attendance.AttendanceRecord, grace int) bool {
	diff, ok := minutesPast(r.OnDuty, r.ClockIn)
	return ok && diff > grace
}

func isEarly(r attendance.AttendanceRecord, grace int) bool {
	diff, ok := minutesPast(r.ClockOut, r.OffDuty)
	return ok && diff > grace
}

func summarize(e employee.Employee, records []attendance.AttendanceRecord, th analytics.Thresholds) (analytics.PunctualityInsight, analytics.WorkforceAnalytics) {
	p := analytics.PunctualityInsight{EmployeeID: e.ID, EmployeeName: e.Name}
	w := analytics.WorkforceAnalytics{EmployeeID: e.ID, EmployeeName: e.Name}

	lateByDay := map[time.Weekday]int{}
	streak := 0
	for _, r := range records {
		late := isLate(r, th.GraceMinutes)
		early := isEarly(r, th.GraceMinutes)
		if late {
			p.LateArrivals++
			lateByDay[r.Date.Weekday()]++
		}
		if early {
			p.EarlyDepartures++
		}

		if !late && !early && r.Status == attendance.StatusPresent {
			streak++
			p.MaxOnTimeStreak = max(p.MaxOnTimeStreak, streak)
		} else {
			streak = 0
		}

		if r.Status.IsScheduled() {
			w.ScheduledDays++
		}
		if r.Status.IsPresent() {
			w.PresentDays++
		}
		w.RegularHours += r.RegularHours
		w.OvertimeHours += r.OvertimeHours
		if r.Date.Weekday() == time.Saturday && r.GrossHours > 0 {
			w.SaturdaysWorked++
		}
	}

	w.AbsentDays = max(w.ScheduledDays-w.PresentDays, 0)
	w.AttendanceRate = percent(float64(w.PresentDays), float64(w.ScheduledDays))
	w.OvertimeRatio = percent(w.OvertimeHours, w.RegularHours)
	w.RegularHours = round(w.RegularHours, 2)
	w.OvertimeHours = round(w.OvertimeHours, 2)

	p.PresentDays = w.PresentDays
	// Lateness on days that are not present still counts against the score, which may go negative.
	onTime := p.PresentDays - p.LateArrivals - p.EarlyDepartures
	p.OnTimeDays = max(onTime, 0)
	p.PunctualityScore = percent(float64(onTime), float64(p.PresentDays))
	p.MostLateDay = mostLateDay(lateByDay)

	return p, w
}

func mostLateDay(lateByDay map[time.Weekday]int) string {
	best, count := time.Sunday, 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if lateByDay[d] > count {
			best, count = d, lateByDay[d]
		}
	}
	if count == 0 {
		return ""
	}
	return best.String()
}

func classify(p analytics.PunctualityInsight, w analytics.WorkforceAnalytics, th analytics.Thresholds) analytics.BehaviorInsight {
	b := analytics.BehaviorInsight{EmployeeID: p.EmployeeID, EmployeeName: p.EmployeeName, Tags: []string{}}

	switch {
	case w.AbsentDays > th.HighAbsenceDays:
		b.AbsencePattern = analytics.AbsenceHigh
	case w.AbsentDays > th.ModerateAbsenceDays:
		b.AbsencePattern = analytics.AbsenceModerate
	default:
		b.AbsencePattern = analytics.AbsenceLow
	}

	switch {
	case p.PresentDays == 0:
		b.Punctuality = analytics.PunctualityNoAttend
	case p.PunctualityScore >= th.PunctualScore:
		b.Punctuality = analytics.PunctualityPunctual
	case p.PunctualityScore >= th.MostlyPunctualScore:
		b.Punctuality = analytics.PunctualityMostly
	default:
		b.Punctuality = analytics.PunctualityOftenLate
	}

	if p.LateArrivals >= th.FrequentLateCount {
		b.Tags = append(b.Tags, analytics.TagFrequentLate)
	}
	if p.EarlyDepartures >= th.EarlyLeaverCount {
		b.Tags = append(b.Tags, analytics.TagEarlyLeaver)
	}
	if w.OvertimeRatio > th.OvertimeHeavyRatio {
		b.Tags = append(b.Tags, analytics.TagOvertimeHeavy)
	}
	if w.SaturdaysWorked > 0 {
		b.Tags = append(b.Tags, analytics.TagSaturdayWorker)
	}
	if w.ScheduledDays > 0 && w.AbsentDays == 0 && p.LateArrivals == 0 && p.EarlyDepartures == 0 {
		b.Tags = append(b.Tags, analytics.TagPerfectAttendance)
	}
	return b
}

// dayOfWeek tallies every in-month record, whoever it belongs to.
func dayOfWeek(records []attendance.AttendanceRecord, th analytics.Thresholds) []analytics.DayOfWeekStat {
	stats := make([]analytics.DayOfWeekStat, len(workWeek))
	index := map[time.Weekday]int{}
	for i, d := range workWeek {
		stats[i] = analytics.DayOfWeekStat{Weekday: int(d), Day: d.String()}
		index[d] = i
	}

	for _, r := range records {
		i, ok := index[r.Date.Weekday()]
		if !ok {
			continue
		}
		if isLate(r, th.GraceMinutes) {
			stats[i].LateArrivals++
		}
		if r.Status == attendance.StatusAbsent {
			stats[i].Absences++
		}
	}
	return stats
}

func patterns(b analytics.Bundle) []analytics.PatternInsight {
	out := []analytics.PatternInsight{}

	var peakLate, peakAbsent *analytics.DayOfWeekStat
	for i := range b.DayOfWeek {
		d := &b.DayOfWeek[i]
		if d.LateArrivals > 0 && (peakLate == nil || d.LateArrivals > peakLate.LateArrivals) {
			peakLate = d
		}
		if d.Absences > 0 && (peakAbsent == nil || d.Absences > peakAbsent.Absences) {
			peakAbsent = d
		}
	}
	if peakLate != nil {
		out = append(out, analytics.PatternInsight{
			Kind:   analytics.PatternPeakLateDay,
			Title:  "Most late arrivals on " + peakLate.Day,
			Detail: fmt.Sprintf("%d late arrivals", peakLate.LateArrivals),
		})
	}
	if peakAbsent != nil {
		out = append(out, analytics.PatternInsight{
			Kind:   analytics.PatternPeakAbsenceDay,
			Title:  "Most absences on " + peakAbsent.Day,
			Detail: fmt.Sprintf("%d absences", peakAbsent.Absences),
		})
	}

	var highAbsence, lowPunctuality, overtimeHeavy []string
	for _, bi := range b.Behavior {
		if bi.AbsencePattern == analytics.AbsenceHigh {
			highAbsence = append(highAbsence, bi.EmployeeName)
		}
		if bi.Punctuality == analytics.PunctualityOftenLate {
			lowPunctuality = append(lowPunctuality, bi.EmployeeName)
		}
		for _, tag := range bi.Tags {
			if tag == analytics.TagOvertimeHeavy {
				overtimeHeavy = append(overtimeHeavy, bi.EmployeeName)
			}
		}
	}
	if len(highAbsence) > 0 {
		out = append(out, analytics.PatternInsight{Kind: analytics.PatternHighAbsence, Title: "High absence", Detail: fmt.Sprintf("%d employees", len(highAbsence)), Employees: highAbsence})
	}
	if len(lowPunctuality) > 0 {
		out = append(out, analytics.PatternInsight{Kind: analytics.PatternLowPunctuality, Title: "Often late", Detail: fmt.Sprintf("%d employees", len(lowPunctuality)), Employees: lowPunctuality})
	}
	if len(overtimeHeavy) > 0 {
		out = append(out, analytics.PatternInsight{Kind: analytics.PatternOvertimeHeavy, Title: "Overtime heavy", Detail: fmt.Sprintf("%d employees", len(overtimeHeavy)), Employees: overtimeHeavy})
	}
	return out
}

// percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round(part/whole*100, 1)
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
