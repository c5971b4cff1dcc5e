package analytics

// PunctualityInsight summarizes arrivals and departures against the duty roster.
type PunctualityInsight struct {
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name"`
	PresentDays      int     `json:"present_days"`
	LateArrivals     int     `json:"late_arrivals"`
	EarlyDepartures  int     `json:"early_departures"`
	OnTimeDays       int     `json:"on_time_days"`
	PunctualityScore float64 `json:"punctuality_score"`
	MaxOnTimeStreak  int     `json:"max_on_time_streak"`
	MostLateDay      string  `json:"most_late_day,omitempty"`
}

// WorkforceAnalytics summarizes attendance and hours for one employee.
type WorkforceAnalytics struct {
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	ScheduledDays   int     `json:"scheduled_days"`
	PresentDays     int     `json:"present_days"`
	AbsentDays      int     `json:"absent_days"`
	AttendanceRate  float64 `json:"attendance_rate"`
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	OvertimeRatio   float64 `json:"overtime_ratio"`
	SaturdaysWorked int     `json:"saturdays_worked"`
}

// BehaviorInsight holds rule-based labels for one employee.
type BehaviorInsight struct {
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   string   `json:"employee_name"`
	AbsencePattern string   `json:"absence_pattern"`
	Punctuality    string   `json:"punctuality"`
	Tags           []string `json:"tags"`
}

// DayOfWeekStat aggregates late arrivals and absences for one weekday across all employees.
type DayOfWeekStat struct {
	Weekday      int    `json:"weekday"`
	Day          string `json:"day"`
	LateArrivals int    `json:"late_arrivals"`
	Absences     int    `json:"absences"`
}

type PatternInsight struct {
	Kind      string   `json:"kind"`
	Title     string   `json:"title"`
	Detail    string   `json:"detail,omitempty"`
	Employees []string `json:"employees,omitempty"`
}

const (
	PatternPeakLateDay    = "peak_late_day"
	PatternPeakAbsenceDay = "peak_absence_day"
	PatternHighAbsence    = "high_absence"
	PatternLowPunctuality = "low_punctuality"
	PatternOvertimeHeavy  = "overtime_heavy"
	AbsenceHigh           = "High"
	AbsenceModerate       = "Moderate"
	AbsenceLow            = "Low"
	PunctualityPunctual   = "Punctual"
	PunctualityMostly     = "Mostly Punctual"
	PunctualityOftenLate  = "Often Late"
	PunctualityNoAttend   = "No Attendance"
	TagFrequentLate       = "Frequent Late Arrivals"
	TagEarlyLeaver        = "Early Leaver"
	TagOvertimeHeavy      = "Overtime Heavy"
	TagSaturdayWorker     = "Saturday Worker"
	TagPerfectAttendance  = "Perfect Attendance"
)

// Bundle is everything computed for one Nepali month.
type Bundle struct {
	BSYear      int                  `json:"bs_year"`
	BSMonth     int                  `json:"bs_month"` // 1-based
	MonthName   string               `json:"month_name"`
	Punctuality []PunctualityInsight `json:"punctuality"`
	Workforce   []WorkforceAnalytics `json:"workforce"`
	Behavior    []BehaviorInsight    `json:"behavior"`
	DayOfWeek   []DayOfWeekStat      `json:"day_of_week"`
	Patterns    []PatternInsight     `json:"pattern_insights"`
}

// Thresholds tune the rule outputs.
type Thresholds struct {
	GraceMinutes        int
	HighAbsenceDays     int
	ModerateAbsenceDays int
	FrequentLateCount   int
	EarlyLeaverCount    int
	OvertimeHeavyRatio  float64
	PunctualScore       float64
	MostlyPunctualScore float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		GraceMinutes:        5,
		HighAbsenceDays:     3,
		ModerateAbsenceDays: 1,
		FrequentLateCount:   5,
		EarlyLeaverCount:    3,
		OvertimeHeavyRatio:  20,
		PunctualScore:       90,
		MostlyPunctualScore: 70,
	}
}
