package dateutil

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "plain date", input: "2025-09-01", want: date(2025, 9, 1)},
		{name: "surrounding spaces", input: " 2026-02-08 ", want: date(2026, 2, 8)},
		{name: "dotted format rejected", input: "01.09.2025", wantErr: true},
		{name: "month out of range", input: "2025-13-01", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	for _, s := range []string{"2025-01-01", "2025-09-09", "2024-02-29"} {
		d, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", s, err)
		}
		if got := FormatDate(d); got != s {
			t.Errorf("FormatDate(ParseDate(%q)) = %q", s, got)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "Wednesday returns Monday",
			input:    time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local),
			expected: date(2025, 1, 13),
		},
		{
			name:     "Monday returns same Monday",
			input:    date(2025, 1, 13),
			expected: date(2025, 1, 13),
		},
		{
			name:     "Sunday returns previous Monday",
			input:    date(2025, 1, 19),
			expected: date(2025, 1, 13),
		},
		{
			name:     "crosses month boundary",
			input:    date(2025, 10, 1),
			expected: date(2025, 9, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StartOfWeek(tt.input)
			if !result.Equal(tt.expected) {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestEndOfWeek(t *testing.T) {
	tests := []struct {
		input    time.Time
		expected time.Time
	}{
		{input: date(2025, 9, 1), expected: date(2025, 9, 7)},
		{input: date(2025, 9, 7), expected: date(2025, 9, 7)},
		{input: date(2025, 12, 31), expected: date(2026, 1, 4)},
	}

	for _, tt := range tests {
		result := EndOfWeek(tt.input)
		if !result.Equal(tt.expected) {
			t.Errorf("EndOfWeek(%v) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestInRange(t *testing.T) {
	start := date(2025, 9, 1)
	end := date(2025, 9, 30)

	tests := []struct {
		name string
		d    time.Time
		want bool
	}{
		{name: "start inclusive", d: start, want: true},
		{name: "end inclusive with time of day", d: time.Date(2025, 9, 30, 23, 59, 0, 0, time.Local), want: true},
		{name: "day before", d: date(2025, 8, 31), want: false},
		{name: "day after", d: date(2025, 10, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(tt.d, start, end); got != tt.want {
				t.Errorf("InRange(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want int
	}{
		{a: date(2025, 9, 1), b: date(2025, 9, 8), want: 7},
		{a: date(2025, 3, 1), b: date(2025, 4, 1), want: 31},
		{a: date(2025, 9, 8), b: date(2025, 9, 1), want: -7},
		{a: date(2025, 10, 20), b: date(2025, 11, 3), want: 14},
	}

	for _, tt := range tests {
		if got := DaysBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestWeekdayIndex(t *testing.T) {
	if got := WeekdayIndex(date(2025, 9, 1)); got != 0 {
		t.Errorf("WeekdayIndex(Monday) = %d, want 0", got)
	}
	if got := WeekdayIndex(date(2025, 9, 7)); got != 6 {
		t.Errorf("WeekdayIndex(Sunday) = %d, want 6", got)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "08:00", want: 480},
		{input: "16:10", want: 970},
		{input: "8:5", wantErr: true},
		{input: "24:00", wantErr: true},
		{input: "noon", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}

	if got := FormatClock(970); got != "16:10" {
		t.Errorf("FormatClock(970) = %q, want 16:10", got)
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(date(2025, 9, 30)); got != "2025-09" {
		t.Errorf("MonthKey() = %q, want 2025-09", got)
	}
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)
	b := time.Date(2025, 1, 15, 22, 0, 0, 0, time.Local)
	if !IsSameDay(a, b) {
		t.Errorf("IsSameDay(%v, %v) = false, want true", a, b)
	}
	if IsSameDay(a, a.AddDate(0, 0, 1)) {
		t.Errorf("IsSameDay() across days = true, want false")
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		d    time.Time
		want bool
	}{
		{date(2025, 9, 26), false},
		{date(2025, 9, 27), true},
		{date(2025, 9, 28), true},
		{date(2025, 9, 29), false},
	}
	for _, tt := range tests {
		if got := IsWeekend(tt.d); got != tt.want {
			t.Errorf("IsWeekend(%s) = %v, want %v", tt.d.Format("2006-01-02 Mon"), got, tt.want)
		}
	}
}
