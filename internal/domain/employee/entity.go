package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

type Employee struct {
	ID               string
	Name             string
	NameKey          string
	EmploymentStatus EmploymentStatus
	WageBasis        WageBasis
	WageAmount       decimal.Decimal
	Allowance        *decimal.Decimal
	CreatedBy        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusWorking   EmploymentStatus = "Working"
	EmploymentStatusLongLeave EmploymentStatus = "Long Leave"
	EmploymentStatusResigned  EmploymentStatus = "Resigned"
	EmploymentStatusDismissed EmploymentStatus = "Dismissed"
)

func (s EmploymentStatus) IsValid() bool {
	switch s {
	case EmploymentStatusWorking, EmploymentStatusLongLeave, EmploymentStatusResigned, EmploymentStatusDismissed:
		return true
	}
	return false
}

type WageBasis string

const (
	WageBasisMonthly WageBasis = "Monthly"
	WageBasisHourly  WageBasis = "Hourly"
)

func (b WageBasis) IsValid() bool {
	return b == WageBasisMonthly || b == WageBasisHourly
}

// AllowanceOrZero returns the fixed allowance, or zero when none is configured.
func (e Employee) AllowanceOrZero() decimal.Decimal {
	if e.Allowance == nil {
		return decimal.Zero
	}
	return *e.Allowance
}

// NameKey normalizes an employee name for case-insensitive matching.
// Attendance rows join to employees on this key.
func NameKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// Roster indexes employees by id and by normalized name.
type Roster struct {
	byKey map[string]Employee
	byID  map[string]Employee
}

func NewRoster(employees []Employee) *Roster {
	r := &Roster{
		byKey: make(map[string]Employee, len(employees)),
		byID:  make(map[string]Employee, len(employees)),
	}
	for _, e := range employees {
		r.Add(e)
	}
	return r
}

func (r *Roster) Add(e Employee) {
	key := e.NameKey
	if key == "" {
		key = NameKey(e.Name)
	}
	if _, exists := r.byKey[key]; !exists {
		r.byKey[key] = e
	}
	r.byID[e.ID] = e
}

func (r *Roster) Lookup(name string) (Employee, bool) {
	e, ok := r.byKey[NameKey(name)]
	return e, ok
}

func (r *Roster) ByID(id string) (Employee, bool) {
	e, ok := r.byID[id]
	return e, ok
}
