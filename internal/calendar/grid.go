package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/teaching-board/pkg/dateutil"
)

// Day is one cell of the calendar grid
type Day struct {
	Date    time.Time `json:"date"`
	Weekday int       `json:"weekday"`
	Class   DayClass  `json:"class"`
	InRange bool      `json:"in_range"`
	Today   bool      `json:"today"`
	// Name is the special day's name, only set for in-range days
	Name string `json:"name,omitempty"`
}

// CSSClasses returns the class list the viewer styles a day cell with
func (d Day) CSSClasses() string {
	cls := []string{"tc-cell"}
	if !d.InRange {
		cls = append(cls, "tc-outside")
	}
	cls = append(cls, "tc-"+d.Class.String())
	if d.Today {
		cls = append(cls, "tc-today")
	}
	return strings.Join(cls, " ")
}

// Week is a Monday-aligned row of the grid
type Week struct {
	Days     [7]Day `json:"days"`
	Number   int    `json:"number"`
	MonthKey string `json:"month_key"`
}

// MonthGroup collects the weeks assigned to one month
type MonthGroup struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Weeks []int  `json:"weeks"`
}

// Grid is the derived teaching calendar
type Grid struct {
	Range  DateRange    `json:"range"`
	Weeks  []Week       `json:"weeks"`
	Months []MonthGroup `json:"months"`
}

// Options control Build
type Options struct {
	// Now marks the matching day as today; nil disables highlighting
	Now *time.Time
	// HideYear drops the year from month labels
	HideYear bool
}

// Build derives the week grid for r.
//
// Raw weeks run from the Monday on/before Start to the Sunday on/after End.
// Only weeks with at least one in-range day are returned, but numbering is
// taken from the raw sequence so week 1 is always the week holding Start.
// An inverted range yields an empty grid.
func Build(r DateRange, special SpecialDays, opts Options) *Grid {
	g := &Grid{Range: r}
	if !r.Valid() {
		return g
	}

	base := dateutil.StartOfWeek(r.Start)
	guard := dateutil.EndOfWeek(r.End)

	for monday := base; !monday.After(guard); monday = dateutil.AddDays(monday, 7) {
		week, hasDays := buildWeek(monday, r, special, opts.Now)
		if !hasDays {
			continue
		}
		week.Number = dateutil.DaysBetween(base, monday)/7 + 1
		g.Weeks = append(g.Weeks, week)
	}

	g.Months = groupMonths(g.Weeks, opts.HideYear)
	return g
}

func buildWeek(monday time.Time, r DateRange, special SpecialDays, now *time.Time) (Week, bool) {
	var w Week
	counts := make(map[string]int)
	var order []string
	anyInRange := false

	for i := 0; i < 7; i++ {
		date := dateutil.AddDays(monday, i)
		day := Day{
			Date:    date,
			Weekday: i,
			InRange: r.Contains(date),
		}

		sd, isSpecial := special.Lookup(date)
		switch {
		case isSpecial && sd.Type == SpecialMakeup:
			day.Class = ClassMakeup
		case isSpecial && sd.Type == SpecialHoliday:
			day.Class = ClassHoliday
		case dateutil.IsWeekend(date):
			day.Class = ClassWeekend
		default:
			day.Class = ClassWeekday
		}

		if isSpecial && day.InRange {
			day.Name = sd.Name
		}
		if now != nil && dateutil.IsSameDay(date, *now) {
			day.Today = true
		}

		if day.InRange {
			anyInRange = true
			mk := dateutil.MonthKey(date)
			if _, seen := counts[mk]; !seen {
				order = append(order, mk)
			}
			counts[mk]++
		}

		w.Days[i] = day
	}

	w.MonthKey = dateutil.MonthKey(monday)
	best := -1
	for _, mk := range order {
		if counts[mk] > best {
			best = counts[mk]
			w.MonthKey = mk
		}
	}

	return w, anyInRange
}

// groupMonths collects week indexes per month key, ordered by key
func groupMonths(weeks []Week, hideYear bool) []MonthGroup {
	byKey := make(map[string]*MonthGroup)
	for i, w := range weeks {
		g, ok := byKey[w.MonthKey]
		if !ok {
			g = &MonthGroup{Key: w.MonthKey, Label: MonthLabel(w.MonthKey, hideYear)}
			byKey[w.MonthKey] = g
		}
		g.Weeks = append(g.Weeks, i)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}

// MonthLabel formats a YYYY-MM key as 2025年9月, or 9月 when hideYear is set
func MonthLabel(key string, hideYear bool) string {
	var y, m int
	if _, err := fmt.Sscanf(key, "%d-%d", &y, &m); err != nil {
		return key
	}
	if hideYear {
		return fmt.Sprintf("%d月", m)
	}
	return fmt.Sprintf("%d年%d月", y, m)
}

// FindDate returns the week and weekday indexes of d in the grid
func (g *Grid) FindDate(d time.Time) (week, day int, ok bool) {
	for wi, w := range g.Weeks {
		for di, cell := range w.Days {
			if dateutil.IsSameDay(cell.Date, d) {
				return wi, di, true
			}
		}
	}
	return 0, 0, false
}

// MonthStartingAt returns the month group whose first week is weekIdx.
// Renderers use it to emit one month header spanning the group's weeks.
func (g *Grid) MonthStartingAt(weekIdx int) (MonthGroup, bool) {
	for _, m := range g.Months {
		if len(m.Weeks) > 0 && m.Weeks[0] == weekIdx {
			return m, true
		}
	}
	return MonthGroup{}, false
}
