package web

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/username/teaching-board/internal/sharelink"
	"github.com/username/teaching-board/internal/timetable"
)

// blankCourseRows are appended to the form so new courses can be added
const blankCourseRows = 3

// ConfigForm is the authoring form. Course fields are parallel arrays, one
// entry per table row; section periods are one "HH:MM-HH:MM" per line.
type ConfigForm struct {
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`

	SectionTitles  []string `form:"section_title"`
	SectionPeriods []string `form:"section_periods"`

	CourseNames   []string `form:"course_name"`
	CourseClasses []string `form:"course_class"`
	CourseRooms   []string `form:"course_room"`
	CourseColors  []string `form:"course_color"`
	CourseSlots   []string `form:"course_slots"`
	CourseSpans   []string `form:"course_span"`

	CenterImage     string `form:"center_image" binding:"omitempty,url"`
	BackgroundImage string `form:"background_image" binding:"omitempty,url"`
}

// CourseRow is one row of the course table
type CourseRow struct {
	Name, ClassName, Room, Color, Slots, Span string
}

// SectionRow is one editable section
type SectionRow struct {
	Title, Periods string
}

// Courses zips the parallel course arrays
func (f *ConfigForm) Courses() []CourseRow {
	rows := make([]CourseRow, len(f.CourseNames))
	for i := range f.CourseNames {
		rows[i] = CourseRow{
			Name:      strings.TrimSpace(f.CourseNames[i]),
			ClassName: at(f.CourseClasses, i),
			Room:      at(f.CourseRooms, i),
			Color:     at(f.CourseColors, i),
			Slots:     at(f.CourseSlots, i),
			Span:      at(f.CourseSpans, i),
		}
	}
	return rows
}

// Sections zips the section arrays
func (f *ConfigForm) Sections() []SectionRow {
	rows := make([]SectionRow, len(f.SectionTitles))
	for i := range f.SectionTitles {
		rows[i] = SectionRow{Title: strings.TrimSpace(f.SectionTitles[i]), Periods: at(f.SectionPeriods, i)}
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

// ToConfig converts the form into a validated AppConfig. Rows without a
// course name are skipped; sections equal to the default are left out of
// the token to keep links short.
func (f *ConfigForm) ToConfig() (*sharelink.AppConfig, error) {
	cfg := &sharelink.AppConfig{
		Calendar:        sharelink.CalendarRange{Start: strings.TrimSpace(f.Start), End: strings.TrimSpace(f.End)},
		CenterImage:     strings.TrimSpace(f.CenterImage),
		BackgroundImage: strings.TrimSpace(f.BackgroundImage),
	}

	for i, row := range f.Courses() {
		if row.Name == "" {
			continue
		}
		course := sharelink.Course{
			Name:      row.Name,
			ClassName: row.ClassName,
			Room:      row.Room,
			Color:     row.Color,
			Sections:  splitSlots(row.Slots),
		}
		if row.Span != "" {
			span, err := strconv.Atoi(row.Span)
			if err != nil {
				return nil, fmt.Errorf("course %d: span %q is not a number", i+1, row.Span)
			}
			if span > 1 {
				course.Span = span
			}
		}
		for _, s := range course.Sections {
			if _, err := timetable.ParseSlotKey(s); err != nil {
				return nil, fmt.Errorf("course %d (%s): %w", i+1, row.Name, err)
			}
		}
		cfg.Course = append(cfg.Course, course)
	}

	sections, err := f.parseSections()
	if err != nil {
		return nil, err
	}
	if len(sections) > 0 && !reflect.DeepEqual(sections, timetable.DefaultSections()) {
		cfg.CourseSections = sections
	}

	if err := sharelink.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *ConfigForm) parseSections() ([]timetable.Section, error) {
	var out []timetable.Section
	for i, row := range f.Sections() {
		sec := timetable.Section{Title: row.Title}
		for _, line := range strings.Split(row.Periods, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			start, end, ok := strings.Cut(line, "-")
			if !ok {
				return nil, fmt.Errorf("section %d: period %q must look like 08:00-08:40", i+1, line)
			}
			sec.Periods = append(sec.Periods, timetable.Period{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)})
		}
		if sec.Title == "" && len(sec.Periods) == 0 {
			continue
		}
		out = append(out, sec)
	}
	return out, nil
}

// splitSlots accepts slot keys separated by commas, spaces or the
// full-width comma
func splitSlots(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// FormFromConfig prefills the form from cfg plus a few blank course rows
func FormFromConfig(cfg *sharelink.AppConfig) ConfigForm {
	f := ConfigForm{
		Start:           cfg.Calendar.Start,
		End:             cfg.Calendar.End,
		CenterImage:     cfg.CenterImage,
		BackgroundImage: cfg.BackgroundImage,
	}

	for _, sec := range cfg.Sections() {
		lines := make([]string, len(sec.Periods))
		for i, p := range sec.Periods {
			lines[i] = p.Start + "-" + p.End
		}
		f.SectionTitles = append(f.SectionTitles, sec.Title)
		f.SectionPeriods = append(f.SectionPeriods, strings.Join(lines, "\n"))
	}

	for _, c := range cfg.Course {
		span := ""
		if c.Span > 1 {
			span = strconv.Itoa(c.Span)
		}
		f.appendCourse(CourseRow{
			Name: c.Name, ClassName: c.ClassName, Room: c.Room, Color: c.Color,
			Slots: strings.Join(c.Sections, ","), Span: span,
		})
	}
	for i := 0; i < blankCourseRows; i++ {
		f.appendCourse(CourseRow{})
	}
	return f
}

func (f *ConfigForm) appendCourse(r CourseRow) {
	f.CourseNames = append(f.CourseNames, r.Name)
	f.CourseClasses = append(f.CourseClasses, r.ClassName)
	f.CourseRooms = append(f.CourseRooms, r.Room)
	f.CourseColors = append(f.CourseColors, r.Color)
	f.CourseSlots = append(f.CourseSlots, r.Slots)
	f.CourseSpans = append(f.CourseSpans, r.Span)
}
