package board

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/internal/palette"
	"github.com/username/teaching-board/internal/timetable"
	"github.com/username/teaching-board/pkg/dateutil"
)

const (
	TimetableSheet = "课表"
	CalendarSheet  = "校历"

	icsProductID = "-//teaching-board//timetable//CN"
	icsUIDDomain = "teaching-board"
)

// ErrExport is returned when a workbook or calendar cannot be generated
var ErrExport = errors.New("failed to generate export")

var dayFills = map[calendar.DayClass]string{
	calendar.ClassHoliday: "#FDE2E2",
	calendar.ClassMakeup:  "#FFF4CC",
	calendar.ClassWeekend: "#F2F2F2",
}

// ExportXLSX writes the timetable and the calendar into one workbook
func ExportXLSX(v *View) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(TimetableSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(CalendarSheet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}

	styles := newStyleCache(f)
	if err := writeTimetable(f, styles, v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := writeCalendar(f, styles, v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return buf, nil
}

// styleCache creates one fill style per colour
type styleCache struct {
	f      *excelize.File
	header int
	fills  map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	header, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	return &styleCache{f: f, header: header, fills: make(map[string]int)}
}

func (sc *styleCache) fill(hex string) int {
	if id, ok := sc.fills[hex]; ok {
		return id
	}
	style := &excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}
	if hex != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1}
	}
	id, _ := sc.f.NewStyle(style)
	sc.fills[hex] = id
	return id
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// writeTimetable lays out | 时段 | 节次 | 时间 | weekday columns |, one row
// per period with spanning lessons merged vertically.
func writeTimetable(f *excelize.File, sc *styleCache, v *View) error {
	sheet := TimetableSheet
	days := v.Plan.Days

	_ = f.SetColWidth(sheet, "A", "B", 8)
	_ = f.SetColWidth(sheet, "C", "C", 14)
	last, _ := excelize.ColumnNumberToName(3 + days)
	_ = f.SetColWidth(sheet, "D", last, 18)

	headers := []string{"时段", "节次", "时间"}
	headers = append(headers, v.Weekdays[:days]...)
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), sc.header); err != nil {
		return err
	}

	row := 2
	for _, sec := range v.Plan.Sections {
		if len(sec.Rows) == 0 {
			continue
		}
		first := row
		for _, r := range sec.Rows {
			_ = f.SetCellValue(sheet, cellName(2, row), fmt.Sprintf("第%d节", r.Number))
			_ = f.SetCellValue(sheet, cellName(3, row), r.Start+"-"+r.End)

			for _, slot := range r.Slots {
				if slot.Kind != timetable.SlotCell {
					continue
				}
				col := 4 + slot.Key.Day
				top := cellName(col, row)
				text := slot.Cell.Course
				if label := slot.Cell.Label(); label != "" {
					text += "\n" + label
				}
				if err := f.SetCellValue(sheet, top, text); err != nil {
					return err
				}
				bottom := cellName(col, row+slot.Span-1)
				if slot.Span > 1 {
					if err := f.MergeCell(sheet, top, bottom); err != nil {
						return err
					}
				}
				_ = f.SetCellStyle(sheet, top, bottom, sc.fill(cssHex(slot.Cell.Color)))
			}
			row++
		}
		_ = f.SetCellValue(sheet, cellName(1, first), sec.Title)
		if row-1 > first {
			if err := f.MergeCell(sheet, cellName(1, first), cellName(1, row-1)); err != nil {
				return err
			}
		}
		_ = f.SetCellStyle(sheet, cellName(1, first), cellName(1, row-1), sc.header)
	}
	return nil
}

// writeCalendar lays out | 月份 | 周次 | 一..日 |, one row per week
func writeCalendar(f *excelize.File, sc *styleCache, v *View) error {
	sheet := CalendarSheet
	g := v.Grid

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 8)
	_ = f.SetColWidth(sheet, "C", "I", 12)

	headers := []string{"月份", "周次", "一", "二", "三", "四", "五", "六", "日"}
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", sc.header); err != nil {
		return err
	}

	for wi, w := range g.Weeks {
		row := wi + 2
		if m, ok := g.MonthStartingAt(wi); ok {
			top := cellName(1, row)
			_ = f.SetCellValue(sheet, top, m.Label)
			if len(m.Weeks) > 1 {
				if err := f.MergeCell(sheet, top, cellName(1, row+len(m.Weeks)-1)); err != nil {
					return err
				}
			}
		}
		_ = f.SetCellValue(sheet, cellName(2, row), w.Number)

		for di, d := range w.Days {
			name := cellName(3+di, row)
			if !d.InRange {
				continue
			}
			text := strconv.Itoa(d.Date.Day())
			if d.Name != "" {
				text += "\n" + d.Name
			}
			_ = f.SetCellValue(sheet, name, text)
			_ = f.SetCellStyle(sheet, name, name, sc.fill(dayFills[d.Class]))
		}
	}
	return nil
}

// cssHex converts a CSS colour to #RRGGBB, or "" when it cannot be parsed
func cssHex(css string) string {
	c, err := palette.ParseCSS(css)
	if err != nil {
		return ""
	}
	return c.Hex()
}

// ExportICS emits one event per lesson occurrence on every teaching day of
// the range. Holidays and plain weekends carry no lessons.
func ExportICS(v *View) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("课表 " + v.Config.Calendar.Start + " ~ " + v.Config.Calendar.End)

	if len(v.Grid.Weeks) == 0 {
		return "", fmt.Errorf("%w: empty calendar range", ErrExport)
	}
	dtStamp := v.Now.UTC()

	for _, w := range v.Grid.Weeks {
		for _, d := range w.Days {
			if !d.InRange || !d.Class.IsTeachingDay() || d.Weekday >= v.Plan.Days {
				continue
			}
			for _, sec := range v.Plan.Sections {
				for _, r := range sec.Rows {
					slot := r.Slots[d.Weekday]
					if slot.Kind != timetable.SlotCell {
						continue
					}
					start, end, ok := v.SlotTime(slot)
					if !ok {
						continue
					}
					begin, err := atClock(d.Date, start)
					if err != nil {
						return "", fmt.Errorf("%w: %v", ErrExport, err)
					}
					finish, err := atClock(d.Date, end)
					if err != nil {
						return "", fmt.Errorf("%w: %v", ErrExport, err)
					}

					uid := fmt.Sprintf("%s-%s@%s", dateutil.FormatDate(d.Date), slot.Key, icsUIDDomain)
					event := cal.AddEvent(uid)
					event.SetDtStampTime(dtStamp)
					event.SetStartAt(begin)
					event.SetEndAt(finish)
					event.SetSummary(slot.Cell.Course)
					if slot.Cell.Room != "" {
						event.SetLocation(slot.Cell.Room)
					}
					if slot.Cell.ClassName != "" {
						event.SetDescription(slot.Cell.ClassName)
					}
				}
			}
		}
	}

	return cal.Serialize(), nil
}

// atClock combines a date with an "HH:MM" wall-clock time in the date's location
func atClock(date time.Time, clock string) (time.Time, error) {
	minutes, err := dateutil.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location()), nil
}
