package timetable

import (
	"fmt"
	"sort"

	"github.com/username/teaching-board/pkg/dateutil"
)

// DefaultWeekdays are the column labels, Monday first
var DefaultWeekdays = []string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}

// Period is one lesson slot in wall-clock "HH:MM" form
type Period struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// Section is a named half-day grouping of periods (morning, afternoon)
type Section struct {
	Title   string   `json:"title"`
	Periods []Period `json:"periods" validate:"dive"`
}

// DefaultSections returns the 4+4 period schedule used when none is configured
func DefaultSections() []Section {
	return []Section{
		{
			Title: "上午",
			Periods: []Period{
				{Start: "08:00", End: "08:40"},
				{Start: "08:50", End: "09:30"},
				{Start: "09:40", End: "10:20"},
				{Start: "10:30", End: "11:10"},
			},
		},
		{
			Title: "下午",
			Periods: []Period{
				{Start: "13:00", End: "13:40"},
				{Start: "13:50", End: "14:30"},
				{Start: "14:40", End: "15:20"},
				{Start: "15:30", End: "16:10"},
			},
		},
	}
}

// CourseCell is what a teacher has in one slot
type CourseCell struct {
	Course    string `json:"course"`
	ClassName string `json:"className,omitempty"`
	Room      string `json:"room,omitempty"`
	Color     string `json:"color,omitempty"`
	Span      int    `json:"span,omitempty"`
}

// SpanOrDefault returns the number of periods the cell occupies (at least 1)
func (c CourseCell) SpanOrDefault() int {
	if c.Span < 1 {
		return 1
	}
	return c.Span
}

// Label is the secondary line shown under the course name
func (c CourseCell) Label() string {
	switch {
	case c.ClassName != "" && c.Room != "":
		return c.ClassName + " " + c.Room
	case c.ClassName != "":
		return c.ClassName
	default:
		return c.Room
	}
}

// Cells is the sparse slot -> cell map
type Cells map[SlotKey]CourseCell

// SortedKeys returns the keys in (day, section, period) order
func (c Cells) SortedKeys() []SlotKey {
	keys := make([]SlotKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// ValidateSections checks clock formats, ordering inside each section and
// that no two periods of the whole schedule overlap.
func ValidateSections(sections []Section) error {
	prevEnd := -1
	for si, sec := range sections {
		for pi, p := range sec.Periods {
			start, err := dateutil.ParseClock(p.Start)
			if err != nil {
				return fmt.Errorf("section %d period %d: %w", si, pi, err)
			}
			end, err := dateutil.ParseClock(p.End)
			if err != nil {
				return fmt.Errorf("section %d period %d: %w", si, pi, err)
			}
			if end <= start {
				return fmt.Errorf("section %d period %d: end %s is not after start %s", si, pi, p.End, p.Start)
			}
			if start < prevEnd {
				return fmt.Errorf("section %d period %d: starts at %s before the previous period ends", si, pi, p.Start)
			}
			prevEnd = end
		}
	}
	return nil
}
