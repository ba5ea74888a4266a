package web

import (
	"encoding/json"
	"fmt"

	"github.com/username/teaching-board/internal/board"
	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/internal/palette"
	"github.com/username/teaching-board/internal/timetable"
)

// viewerPage is the template model of the board page
type viewerPage struct {
	View  *board.View
	Link  string
	Heads []headCell
	Rows  []tableRow
	Weeks []weekRow
}

type headCell struct {
	Label string
	Today bool
}

type tableRow struct {
	// SectionTitle and SectionRows are set on a section's first row only
	SectionTitle string
	SectionRows  int
	Number       int
	Start, End   string
	Cells        []tableCell
}

type tableCell struct {
	Rowspan int
	Empty   bool
	Course  string
	Label   string
	// Color is normalised to #RRGGBB, empty when it does not parse
	Color string
	Title string
	Today bool
	// MarkerTop is the ribbon position in percent, -1 for none
	MarkerTop float64
	Marker    string
}

type weekRow struct {
	MonthLabel string
	MonthRows  int
	Number     int
	Days       [7]calendar.Day
}

func newViewerPage(v *board.View, link string) viewerPage {
	p := viewerPage{View: v, Link: link}

	for i, label := range v.Weekdays {
		p.Heads = append(p.Heads, headCell{Label: label, Today: i == v.TodayIndex})
	}

	marker := v.Plan.Marker
	for _, sec := range v.Plan.Sections {
		for ri, r := range sec.Rows {
			row := tableRow{Number: r.Number, Start: r.Start, End: r.End}
			if ri == 0 {
				row.SectionTitle = sec.Title
				row.SectionRows = len(sec.Rows)
			}
			for _, slot := range r.Rendered() {
				cell := tableCell{Rowspan: 1, Empty: true, MarkerTop: -1, Today: slot.Key.Day == v.TodayIndex}
				start, end, _ := v.SlotTime(slot)
				cell.Title = fmt.Sprintf("%s-%s", start, end)
				if slot.Kind == timetable.SlotCell {
					cell.Empty = false
					cell.Rowspan = slot.Span
					cell.Course = slot.Cell.Course
					cell.Label = slot.Cell.Label()
					cell.Color = cssColor(slot.Cell.Color)
				}
				if marker != nil && marker.Target == slot.Key {
					cell.MarkerTop = marker.Offset * 100
					cell.Marker = marker.State.String()
				}
				row.Cells = append(row.Cells, cell)
			}
			p.Rows = append(p.Rows, row)
		}
	}

	for wi, w := range v.Grid.Weeks {
		row := weekRow{Number: w.Number, Days: w.Days}
		if m, ok := v.Grid.MonthStartingAt(wi); ok {
			row.MonthLabel = m.Label
			row.MonthRows = len(m.Weeks)
		}
		p.Weeks = append(p.Weeks, row)
	}

	return p
}

// configPage is the template model of the authoring form
type configPage struct {
	Form     ConfigForm
	Courses  []CourseRow
	Sections []SectionRow
	Error    string
	Warning  string
	Link     string
	Token    string
	JSON     string
}

func newConfigPage(form ConfigForm) configPage {
	return configPage{Form: form, Courses: form.Courses(), Sections: form.Sections()}
}

// cssColor normalises a user supplied colour so it is safe in a style
// attribute
func cssColor(s string) string {
	c, err := palette.ParseCSS(s)
	if err != nil {
		return ""
	}
	return c.Hex()
}

func prettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
