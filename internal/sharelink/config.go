package sharelink

import (
	"fmt"
	"time"

	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/internal/palette"
	"github.com/username/teaching-board/internal/timetable"
	"github.com/username/teaching-board/pkg/dateutil"
)

// CalendarRange is the teaching period in YYYY-MM-DD form
type CalendarRange struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// Course assigns one course/class pair to a list of slot keys
type Course struct {
	Name      string   `json:"name"`
	ClassName string   `json:"className"`
	Room      string   `json:"room,omitempty"`
	Color     string   `json:"color,omitempty"`
	Sections  []string `json:"sections"`
	Span      int      `json:"span,omitempty" validate:"omitempty,min=1,max=12"`
}

// AppConfig is everything the viewer needs; it travels inside the link
type AppConfig struct {
	Calendar        CalendarRange       `json:"calendar"`
	Course          []Course            `json:"course" validate:"dive"`
	CourseSections  []timetable.Section `json:"courseSections,omitempty" validate:"omitempty,dive"`
	CenterImage     string              `json:"centerImage,omitempty"`
	BackgroundImage string              `json:"backgroundImage,omitempty"`
}

// DateRange parses the calendar range
func (c *AppConfig) DateRange() (calendar.DateRange, error) {
	return calendar.ParseDateRange(c.Calendar.Start, c.Calendar.End)
}

// Sections returns the configured schedule or the default one
func (c *AppConfig) Sections() []timetable.Section {
	if len(c.CourseSections) > 0 {
		return c.CourseSections
	}
	return timetable.DefaultSections()
}

// BuildCells expands course entries into the sparse slot map.
// Later entries overwrite earlier ones at the same key. Keys that do not
// parse are returned separately and otherwise ignored. Courses without a
// colour get a hash pastel derived from name and class.
func (c *AppConfig) BuildCells() (timetable.Cells, []string) {
	cells := make(timetable.Cells)
	var invalid []string

	for _, course := range c.Course {
		color := course.Color
		if color == "" {
			color = palette.HashPastel(course.Name, course.ClassName).String()
		}
		for _, s := range course.Sections {
			key, err := timetable.ParseSlotKey(s)
			if err != nil {
				invalid = append(invalid, s)
				continue
			}
			cells[key] = timetable.CourseCell{
				Course:    course.Name,
				ClassName: course.ClassName,
				Room:      course.Room,
				Color:     color,
				Span:      course.Span,
			}
		}
	}

	return cells, invalid
}

// ApplyFrequencyColors gives every course without a colour a palette entry,
// rarest course/class pair first.
func (c *AppConfig) ApplyFrequencyColors(colors []string) {
	cells := make(timetable.Cells)
	for _, course := range c.Course {
		for _, s := range course.Sections {
			if key, err := timetable.ParseSlotKey(s); err == nil {
				cells[key] = timetable.CourseCell{Course: course.Name, ClassName: course.ClassName}
			}
		}
	}

	keys := make([]string, 0, len(cells))
	for _, k := range cells.SortedKeys() {
		cell := cells[k]
		keys = append(keys, palette.FrequencyKey(cell.Course, cell.ClassName))
	}
	assigned := palette.AssignByFrequency(keys, colors)

	for i := range c.Course {
		if c.Course[i].Color != "" {
			continue
		}
		if color, ok := assigned[palette.FrequencyKey(c.Course[i].Name, c.Course[i].ClassName)]; ok {
			c.Course[i].Color = color
		}
	}
}

// Default is the demo configuration: one year starting today, a sample
// week of lessons coloured from the default palette.
func Default(now time.Time) *AppConfig {
	today := dateutil.Today(now)
	cfg := &AppConfig{
		Calendar: CalendarRange{
			Start: dateutil.FormatDate(today),
			End:   dateutil.FormatDate(today.AddDate(1, 0, 0)),
		},
		Course: []Course{
			{Name: "数学", ClassName: "六(2)班", Room: "A102", Sections: []string{"1-0-0", "1-0-2", "2-0-2", "2-1-2", "3-0-2"}},
			{Name: "数学", ClassName: "六(1)班", Room: "A101", Sections: []string{"1-0-1", "2-1-0", "3-0-3", "4-0-0", "4-0-3"}},
			{Name: "校本课程(数)", ClassName: "六(1)班", Room: "A101", Sections: []string{"2-1-3"}},
			{Name: "校本课程(数)", ClassName: "六(2)班", Room: "A102", Sections: []string{"4-1-0"}},
		},
	}
	cfg.ApplyFrequencyColors(palette.DefaultPalette)
	return cfg
}

// Summary is a one-line description used in logs
func (c *AppConfig) Summary() string {
	slots := 0
	for _, course := range c.Course {
		slots += len(course.Sections)
	}
	return fmt.Sprintf("%s..%s, %d courses, %d slots", c.Calendar.Start, c.Calendar.End, len(c.Course), slots)
}
