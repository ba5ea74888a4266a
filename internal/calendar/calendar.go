package calendar

import (
	"fmt"
	"time"

	"github.com/username/teaching-board/pkg/dateutil"
)

// DayClass is the display classification of a calendar day
type DayClass int

const (
	ClassWeekday DayClass = iota + 1
	ClassWeekend
	ClassHoliday
	ClassMakeup
)

func (c DayClass) String() string {
	switch c {
	case ClassWeekend:
		return "weekend"
	case ClassHoliday:
		return "holiday"
	case ClassMakeup:
		return "makeup"
	default:
		return "weekday"
	}
}

// MarshalText lets grids serialise classes by name
func (c DayClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsTeachingDay reports whether lessons take place on a day of this class
func (c DayClass) IsTeachingDay() bool {
	return c == ClassWeekday || c == ClassMakeup
}

// SpecialType distinguishes days off from weekend working days
type SpecialType string

const (
	// SpecialHoliday is a day off on what would be a working day
	SpecialHoliday SpecialType = "holiday"
	// SpecialMakeup is a weekend day turned into a working day
	SpecialMakeup SpecialType = "makeup"
)

// SpecialDay overrides the default weekday/weekend classification of a date
type SpecialDay struct {
	Date time.Time   `json:"date"`
	Name string      `json:"name,omitempty"`
	Type SpecialType `json:"type"`
}

// SpecialDays indexes special days by YYYY-MM-DD
type SpecialDays map[string]SpecialDay

// IndexSpecialDays builds the index; a later entry for the same date wins
func IndexSpecialDays(days []SpecialDay) SpecialDays {
	out := make(SpecialDays, len(days))
	for _, d := range days {
		out[dateutil.FormatDate(d.Date)] = d
	}
	return out
}

// Lookup returns the special day for a date, if any
func (s SpecialDays) Lookup(d time.Time) (SpecialDay, bool) {
	sd, ok := s[dateutil.FormatDate(d)]
	return sd, ok
}

// Merge copies other into s; entries of other win
func (s SpecialDays) Merge(other SpecialDays) {
	for k, v := range other {
		s[k] = v
	}
}

// DateRange is the teaching period, both ends inclusive
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseDateRange parses two YYYY-MM-DD strings
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := dateutil.ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("range start: %w", err)
	}
	e, err := dateutil.ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("range end: %w", err)
	}
	return DateRange{Start: s, End: e}, nil
}

// Valid reports whether Start <= End
func (r DateRange) Valid() bool {
	return !dateutil.DateOnly(r.Start).After(dateutil.DateOnly(r.End))
}

// Contains reports whether d falls inside the range, comparing dates only
func (r DateRange) Contains(d time.Time) bool {
	return dateutil.InRange(d, r.Start, r.End)
}

// Days returns the number of calendar days in the range
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	return dateutil.DaysBetween(r.Start, r.End) + 1
}
