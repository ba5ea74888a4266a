package board

import (
	"fmt"
	"time"

	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/internal/sharelink"
	"github.com/username/teaching-board/internal/timetable"
)

// View is everything a renderer needs for one page
type View struct {
	Config *sharelink.AppConfig `json:"config"`
	// Token re-encodes Config so renderers can build links
	Token    string    `json:"token"`
	Now      time.Time `json:"now"`
	Weekdays []string  `json:"weekdays"`
	// TodayIndex is the highlighted weekday column, -1 for none
	TodayIndex int                 `json:"today_index"`
	Periods    []timetable.Section `json:"periods"`
	Plan       *timetable.Plan     `json:"plan"`
	Grid       *calendar.Grid      `json:"grid"`
	Warning    string              `json:"warning,omitempty"`
	// Invalid lists slot keys that could not be parsed
	Invalid         []string `json:"invalid,omitempty"`
	CenterImage     string   `json:"center_image,omitempty"`
	BackgroundImage string   `json:"background_image,omitempty"`
}

// PeriodTime returns the configured start and end of a period
func (v *View) PeriodTime(section, period int) (string, string, bool) {
	if section < 0 || section >= len(v.Periods) {
		return "", "", false
	}
	ps := v.Periods[section].Periods
	if period < 0 || period >= len(ps) {
		return "", "", false
	}
	return ps[period].Start, ps[period].End, true
}

// SlotTime is the wall-clock range of a rendered slot including its span
func (v *View) SlotTime(s timetable.Slot) (string, string, bool) {
	start, _, ok := v.PeriodTime(s.Key.Section, s.Key.Period)
	if !ok {
		return "", "", false
	}
	span := s.Span
	if span < 1 {
		span = 1
	}
	_, end, ok := v.PeriodTime(s.Key.Section, s.Key.Period+span-1)
	if !ok {
		return "", "", false
	}
	return start, end, true
}

// Status is a one-line description of the current moment, used by the tray
// and the terminal renderer.
func (v *View) Status() string {
	m := v.Plan.Marker
	if m == nil {
		return fmt.Sprintf("%s 无课", stamp(v.Now))
	}

	slot, ok := v.Plan.Slot(m.Target)
	var lesson string
	if ok && slot.Kind == timetable.SlotCell {
		lesson = slot.Cell.Course
		if label := slot.Cell.Label(); label != "" {
			lesson += " " + label
		}
	} else {
		lesson = "空堂"
	}

	start, end, _ := v.PeriodTime(m.Key.Section, m.Key.Period)
	switch m.State {
	case timetable.MarkerParkedTop:
		return fmt.Sprintf("%s 即将上课: %s (%s-%s)", stamp(v.Now), lesson, start, end)
	case timetable.MarkerParkedBottom:
		return fmt.Sprintf("%s 已下课: %s (%s-%s)", stamp(v.Now), lesson, start, end)
	default:
		return fmt.Sprintf("%s %s (%s-%s, %d%%)", stamp(v.Now), lesson, start, end, int(m.Progress*100))
	}
}

func stamp(t time.Time) string {
	return t.Format("01-02 15:04")
}
