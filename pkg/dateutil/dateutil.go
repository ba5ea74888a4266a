package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only textual date form used in tokens and feeds
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date or clock string cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// DateOnly truncates t to midnight in the local location, keeping the calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Today returns the date-only value of now
func Today(now time.Time) time.Time {
	return DateOnly(now)
}

// ParseDate parses a YYYY-MM-DD string into a date-only value in local time
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// FormatDate formats the date component as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays moves a date by n calendar days
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// WeekdayIndex returns the weekday with Monday = 0 ... Sunday = 6
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// StartOfWeek returns the Monday on or before the given date
func StartOfWeek(t time.Time) time.Time {
	return AddDays(t, -WeekdayIndex(t))
}

// EndOfWeek returns the Sunday on or after the given date
func EndOfWeek(t time.Time) time.Time {
	return AddDays(StartOfWeek(t), 6)
}

// InRange reports whether d lies in [start, end], comparing dates only
func InRange(d, start, end time.Time) bool {
	dd, s, e := civil(d), civil(start), civil(end)
	return !dd.Before(s) && !dd.After(e)
}

// DaysBetween returns the number of calendar days from a to b.
// It is computed on UTC civil dates so DST transitions never skew it.
func DaysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

// MonthKey returns the YYYY-MM key of the date
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(t time.Time) bool {
	weekday := t.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() &&
		a.Month() == b.Month() &&
		a.Day() == b.Day()
}

// ParseClock parses "HH:MM" into minutes after midnight
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w clock %q", ErrInvalidDate, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w clock %q", ErrInvalidDate, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || len(m) != 2 {
		return 0, fmt.Errorf("%w clock %q", ErrInvalidDate, s)
	}
	return hour*60 + minute, nil
}

// FormatClock formats minutes after midnight as "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay returns the wall-clock position of t in fractional minutes
func MinuteOfDay(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
