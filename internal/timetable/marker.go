package timetable

import (
	"time"

	"github.com/username/teaching-board/pkg/dateutil"
)

// MarkerState describes how the "now" ribbon is drawn
type MarkerState int

const (
	// MarkerActive tracks progress through a running period
	MarkerActive MarkerState = iota
	// MarkerParkedTop waits at the top of the first period of the day
	MarkerParkedTop
	// MarkerParkedBottom rests at the bottom of the period that just ended
	MarkerParkedBottom
)

func (s MarkerState) String() string {
	switch s {
	case MarkerParkedTop:
		return "parked-top"
	case MarkerParkedBottom:
		return "parked-bottom"
	default:
		return "active"
	}
}

// MarshalText lets plans serialise states by name
func (s MarkerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Marker is the live time indicator for the current weekday
type Marker struct {
	State MarkerState `json:"state"`
	// Key is the period the marker refers to
	Key SlotKey `json:"key"`
	// Target is the rendered slot that draws the marker; differs from Key
	// when Key is covered by a spanning cell
	Target SlotKey `json:"target"`
	// Progress through Key's period in [0, 1]
	Progress float64 `json:"progress"`
	// Offset is the vertical position inside Target in [0, 1]
	Offset float64 `json:"offset"`
	Clock  string  `json:"clock"`
}

type timedPeriod struct {
	section, period int
	start, end      float64
}

// locateMarker finds where the ribbon goes for now, or nil when hidden.
//
//   - inside a period: active, progress (t-start)/(end-start)
//   - before the first period of the day: parked at its top
//   - after a section's last period, while the next section has not started
//     (or there is no next section): parked at that period's bottom
//   - anything else, including gaps between periods of one section: hidden
func locateMarker(plan *Plan, sections []Section, now time.Time) *Marker {
	day := dateutil.WeekdayIndex(now)
	if day >= plan.Days {
		return nil
	}

	bySection := make([][]timedPeriod, len(sections))
	var first *timedPeriod
	for si, sec := range sections {
		for pi, p := range sec.Periods {
			start, err := dateutil.ParseClock(p.Start)
			if err != nil {
				continue
			}
			end, err := dateutil.ParseClock(p.End)
			if err != nil {
				continue
			}
			tp := timedPeriod{section: si, period: pi, start: float64(start), end: float64(end)}
			bySection[si] = append(bySection[si], tp)
			if first == nil {
				f := tp
				first = &f
			}
		}
	}
	if first == nil {
		return nil
	}

	t := dateutil.MinuteOfDay(now)
	clock := dateutil.FormatClock(now.Hour()*60 + now.Minute())

	if t < first.start {
		return placeMarker(plan, day, *first, MarkerParkedTop, 0, clock)
	}

	for si, periods := range bySection {
		for i, tp := range periods {
			if t >= tp.start && t < tp.end {
				progress := (t - tp.start) / (tp.end - tp.start)
				return placeMarker(plan, day, tp, MarkerActive, clamp01(progress), clock)
			}
			if i != len(periods)-1 || t < tp.end {
				continue
			}
			next := nextSectionStart(bySection, si)
			if next < 0 || t < next {
				return placeMarker(plan, day, tp, MarkerParkedBottom, 1, clock)
			}
		}
	}

	return nil
}

// nextSectionStart returns the first start time after section si, or -1
func nextSectionStart(bySection [][]timedPeriod, si int) float64 {
	for _, periods := range bySection[si+1:] {
		if len(periods) > 0 {
			return periods[0].start
		}
	}
	return -1
}

func placeMarker(plan *Plan, day int, tp timedPeriod, state MarkerState, progress float64, clock string) *Marker {
	key := SlotKey{Day: day, Section: tp.section, Period: tp.period}
	m := &Marker{
		State:    state,
		Key:      key,
		Target:   key,
		Progress: progress,
		Offset:   progress,
		Clock:    clock,
	}

	slot, ok := plan.Slot(key)
	if !ok {
		return m
	}

	origin := key
	span := slot.Span
	if slot.Kind == SlotCovered && slot.Origin != nil {
		origin = *slot.Origin
		if o, ok := plan.Slot(origin); ok {
			span = o.Span
		}
	}
	if span < 1 {
		span = 1
	}

	m.Target = origin
	m.Offset = (float64(key.Period-origin.Period) + progress) / float64(span)
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
