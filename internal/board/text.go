package board

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/internal/timetable"
)

// Terminal cell marks
const (
	textCovered = "〃"
	textEmpty   = "-"
	textMarker  = "▶"
)

var calendarHeads = []string{"一", "二", "三", "四", "五", "六", "日"}

// WriteText renders v for a terminal: the status line, the timetable and
// the teaching calendar. Only the week holding today is printed when
// todayOnly is set and today is inside the grid.
func WriteText(w io.Writer, v *View, todayOnly bool) error {
	if v.Warning != "" {
		if _, err := fmt.Fprintf(w, "! %s\n", v.Warning); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", v.Status()); err != nil {
		return err
	}
	if err := writeTimetableText(w, v); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeCalendarText(w, v, todayOnly)
}

func writeTimetableText(w io.Writer, v *View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	heads := []string{"时段", "节次", "时间"}
	for i, label := range v.Weekdays {
		if i == v.TodayIndex {
			label = "[" + label + "]"
		}
		heads = append(heads, label)
	}
	fmt.Fprintln(tw, strings.Join(heads, "\t"))

	marker := v.Plan.Marker
	for _, sec := range v.Plan.Sections {
		for ri, r := range sec.Rows {
			title := ""
			if ri == 0 {
				title = sec.Title
			}
			cols := []string{title, fmt.Sprintf("第%d节", r.Number), r.Start + "-" + r.End}
			for _, slot := range r.Slots {
				text := slotText(slot)
				if marker != nil && marker.Target == slot.Key {
					text = textMarker + text
				}
				cols = append(cols, text)
			}
			fmt.Fprintln(tw, strings.Join(cols, "\t"))
		}
	}
	return tw.Flush()
}

func slotText(s timetable.Slot) string {
	switch s.Kind {
	case timetable.SlotCell:
		if label := s.Cell.Label(); label != "" {
			return s.Cell.Course + "/" + label
		}
		return s.Cell.Course
	case timetable.SlotCovered:
		return textCovered
	default:
		return textEmpty
	}
}

func writeCalendarText(w io.Writer, v *View, todayOnly bool) error {
	if v.Grid == nil || len(v.Grid.Weeks) == 0 {
		_, err := fmt.Fprintln(w, "(校历为空)")
		return err
	}

	weeks := make([]int, 0, len(v.Grid.Weeks))
	if wi, _, ok := v.Grid.FindDate(v.Now); todayOnly && ok {
		weeks = append(weeks, wi)
	} else {
		for wi := range v.Grid.Weeks {
			weeks = append(weeks, wi)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "月份\t周次\t"+strings.Join(calendarHeads, "\t")+"\t")

	var names []string
	for _, wi := range weeks {
		week := v.Grid.Weeks[wi]
		month := ""
		if m, ok := v.Grid.MonthStartingAt(wi); ok {
			month = m.Label
		}
		cols := []string{month, fmt.Sprintf("%d", week.Number)}
		for _, d := range week.Days {
			cols = append(cols, dayText(d))
			if d.Name != "" && d.InRange {
				names = append(names, fmt.Sprintf("%s %s", d.Date.Format("01-02"), d.Name))
			}
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(names) > 0 {
		_, err := fmt.Fprintf(w, "\n%s\n", strings.Join(names, "\n"))
		return err
	}
	return nil
}

// dayText is the day of month with a mark: 休 holiday, 班 makeup day, * today
func dayText(d calendar.Day) string {
	if !d.InRange {
		return "."
	}
	s := fmt.Sprintf("%d", d.Date.Day())
	switch d.Class {
	case calendar.ClassHoliday:
		s += "休"
	case calendar.ClassMakeup:
		s += "班"
	}
	if d.Today {
		s = "*" + s
	}
	return s
}
