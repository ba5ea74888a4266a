package timetable

import (
	"sort"
	"time"
)

// SlotKind tells the renderer what to draw for a slot
type SlotKind int

const (
	// SlotEmpty renders an empty placeholder
	SlotEmpty SlotKind = iota
	// SlotCell renders a course cell spanning Span rows
	SlotCell
	// SlotCovered renders nothing: a cell above spans over it
	SlotCovered
)

func (k SlotKind) String() string {
	switch k {
	case SlotCell:
		return "cell"
	case SlotCovered:
		return "covered"
	default:
		return "empty"
	}
}

// MarshalText lets plans serialise kinds by name
func (k SlotKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Slot is the resolved content of one (day, section, period)
type Slot struct {
	Key  SlotKey     `json:"key"`
	Kind SlotKind    `json:"kind"`
	Cell *CourseCell `json:"cell,omitempty"`
	// Span is the clamped row span of a SlotCell, 1 otherwise
	Span int `json:"span"`
	// Origin is the covering cell's key for SlotCovered
	Origin *SlotKey `json:"origin,omitempty"`
}

// Row is one period across all displayed days
type Row struct {
	Section int    `json:"section"`
	Period  int    `json:"period"`
	Number  int    `json:"number"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Slots   []Slot `json:"slots"`
}

// Rendered returns the slots that produce output, skipping covered ones
func (r Row) Rendered() []Slot {
	out := make([]Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Kind != SlotCovered {
			out = append(out, s)
		}
	}
	return out
}

// SectionPlan is the resolved rows of one section
type SectionPlan struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Plan is the complete render plan of a timetable
type Plan struct {
	Days     int           `json:"days"`
	Sections []SectionPlan `json:"sections"`
	Marker   *Marker       `json:"marker,omitempty"`
	// Unplaced lists keys that point outside the schedule
	Unplaced []SlotKey `json:"unplaced,omitempty"`
	// Shadowed lists cells that sit on a slot already covered by a span
	Shadowed []SlotKey `json:"shadowed,omitempty"`
}

// Slot looks up a resolved slot
func (p *Plan) Slot(key SlotKey) (Slot, bool) {
	if key.Section < 0 || key.Section >= len(p.Sections) {
		return Slot{}, false
	}
	rows := p.Sections[key.Section].Rows
	if key.Period < 0 || key.Period >= len(rows) || key.Day < 0 || key.Day >= p.Days {
		return Slot{}, false
	}
	return rows[key.Period].Slots[key.Day], true
}

// Options control Resolve
type Options struct {
	// Days is the number of weekday columns, Monday first. 0 means all 7.
	Days int
	// Now drives the live marker; nil disables it
	Now *time.Time
}

// Resolve lays cells out over the schedule.
//
// A cell with span k covers the next k-1 periods of its own section; spans
// never cross a section boundary. A cell that lands on an already covered
// slot is ignored together with its own span. Keys outside the schedule are
// never rendered and are reported in Plan.Unplaced.
func Resolve(sections []Section, cells Cells, opts Options) *Plan {
	days := opts.Days
	if days <= 0 || days > len(DefaultWeekdays) {
		days = len(DefaultWeekdays)
	}

	plan := &Plan{Days: days, Sections: make([]SectionPlan, len(sections))}

	number := 0
	for si, sec := range sections {
		sp := SectionPlan{Title: sec.Title, Rows: make([]Row, len(sec.Periods))}
		for pi, p := range sec.Periods {
			number++
			sp.Rows[pi] = Row{
				Section: si,
				Period:  pi,
				Number:  number,
				Start:   p.Start,
				End:     p.End,
				Slots:   make([]Slot, days),
			}
		}
		plan.Sections[si] = sp
	}

	for d := 0; d < days; d++ {
		for si, sec := range sections {
			coveredBy := make(map[int]SlotKey)
			for pi := range sec.Periods {
				key := SlotKey{Day: d, Section: si, Period: pi}
				slot := Slot{Key: key, Kind: SlotEmpty, Span: 1}

				cell, hasCell := cells[key]
				if origin, covered := coveredBy[pi]; covered {
					o := origin
					slot.Kind = SlotCovered
					slot.Origin = &o
					if hasCell {
						plan.Shadowed = append(plan.Shadowed, key)
					}
				} else if hasCell {
					span := cell.SpanOrDefault()
					if remaining := len(sec.Periods) - pi; span > remaining {
						span = remaining
					}
					for off := 1; off < span; off++ {
						coveredBy[pi+off] = key
					}
					c := cell
					slot.Kind = SlotCell
					slot.Cell = &c
					slot.Span = span
				}

				plan.Sections[si].Rows[pi].Slots[d] = slot
			}
		}
	}

	for key := range cells {
		if !inSchedule(key, sections, days) {
			plan.Unplaced = append(plan.Unplaced, key)
		}
	}
	sort.Slice(plan.Unplaced, func(i, j int) bool { return plan.Unplaced[i].Less(plan.Unplaced[j]) })

	if opts.Now != nil {
		plan.Marker = locateMarker(plan, sections, *opts.Now)
	}

	return plan
}

func inSchedule(key SlotKey, sections []Section, days int) bool {
	if key.Day < 0 || key.Day >= days {
		return false
	}
	if key.Section < 0 || key.Section >= len(sections) {
		return false
	}
	return key.Period >= 0 && key.Period < len(sections[key.Section].Periods)
}
