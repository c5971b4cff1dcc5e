// Package bsdate converts between Bikram Sambat (Nepali) and Gregorian calendar dates.
//
// Months are 0-based (0 = Baisakh … 11 = Chaitra) throughout the API; the string form of a
// Date uses the conventional 1-based month.
package bsdate

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid nepali date")
	ErrOutOfRange  = errors.New("date outside supported nepali calendar range")
)

const isoLayout = "2006-01-02"

// Date is a Bikram Sambat calendar date.
type Date struct {
	Year  int
	Month int // 0-based
	Day   int
}

// String returns the date as YYYY-MM-DD with a 1-based month.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Day)
}

// Resolved describes a Nepali date together with its Gregorian equivalent.
type Resolved struct {
	Nepali     Date
	Gregorian  time.Time
	ISODate    string
	NepaliDate string
	Weekday    time.Weekday
	IsSaturday bool
}

// yearStart[i] is the day offset of 1 Baisakh of minYear+i from epoch.
var yearStart [maxYear - minYear + 2]int

func init() {
	for i, months := range monthDays {
		total := 0
		for _, d := range months {
			total += d
		}
		yearStart[i+1] = yearStart[i] + total
	}
}

func checkMonth(year, month int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d", ErrOutOfRange, year)
	}
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	return nil
}

// monthStart returns the day offset of the first day of the given month from epoch.
func monthStart(year, month int) int {
	offset := yearStart[year-minYear]
	for m := 0; m < month; m++ {
		offset += monthDays[year-minYear][m]
	}
	return offset
}

// DaysInMonth returns the number of days in a Nepali month, computed as the distance from its
// first day to the first day of the following month.
func DaysInMonth(year, month int) (int, error) {
	if err := checkMonth(year, month); err != nil {
		return 0, err
	}
	return monthStart(year, month+1) - monthStart(year, month), nil
}

// ToGregorian converts a Nepali date to a UTC-midnight Gregorian time.
func ToGregorian(year, month, day int) (time.Time, error) {
	days, err := DaysInMonth(year, month)
	if err != nil {
		return time.Time{}, err
	}
	if day < 1 || day > days {
		return time.Time{}, fmt.Errorf("%w: day %d of %s %d has %d days", ErrInvalidDate, day, MonthNames[month], year, days)
	}
	return epoch.AddDate(0, 0, monthStart(year, month)+day-1), nil
}

// Resolve converts a Nepali date and derives the strings and weekday used by the import pipeline.
func Resolve(year, month, day int) (Resolved, error) {
	t, err := ToGregorian(year, month, day)
	if err != nil {
		return Resolved{}, err
	}
	d := Date{Year: year, Month: month, Day: day}
	return Resolved{
		Nepali:     d,
		Gregorian:  t,
		ISODate:    t.Format(isoLayout),
		NepaliDate: d.String(),
		Weekday:    t.Weekday(),
		IsSaturday: t.Weekday() == time.Saturday,
	}, nil
}

// FromGregorian converts a Gregorian date (the calendar day in t's location) to Nepali.
func FromGregorian(t time.Time) (Date, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(day.Sub(epoch).Hours() / 24)
	if offset < 0 || offset >= yearStart[len(yearStart)-1] {
		return Date{}, fmt.Errorf("%w: %s", ErrOutOfRange, day.Format(isoLayout))
	}

	i := 0
	for yearStart[i+1] <= offset {
		i++
	}
	rest := offset - yearStart[i]
	month := 0
	for rest >= monthDays[i][month] {
		rest -= monthDays[i][month]
		month++
	}
	return Date{Year: minYear + i, Month: month, Day: rest + 1}, nil
}

// ParseISO parses a 2006-01-02 Gregorian date and converts it to Nepali.
func ParseISO(iso string) (Date, error) {
	t, err := time.Parse(isoLayout, iso)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return FromGregorian(t)
}

// InMonth reports whether the Gregorian date t falls inside the given Nepali month.
func InMonth(t time.Time, year, month int) bool {
	d, err := FromGregorian(t)
	if err != nil {
		return false
	}
	return d.Year == year && d.Month == month
}

// MonthRange returns the first and last Gregorian days of a Nepali month.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	days, err := DaysInMonth(year, month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	first, _ := ToGregorian(year, month, 1)
	return first, first.AddDate(0, 0, days-1), nil
}
