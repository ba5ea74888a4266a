package sharelink

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/username/teaching-board/internal/timetable"
	"github.com/username/teaching-board/pkg/dateutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// "HH:MM" wall-clock times in custom sections
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := dateutil.ParseClock(fl.Field().String())
		return err == nil
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		r := sl.Current().Interface().(CalendarRange)
		start, err1 := dateutil.ParseDate(r.Start)
		end, err2 := dateutil.ParseDate(r.End)
		if err1 == nil && err2 == nil && start.After(end) {
			sl.ReportError(r.End, "End", "end", "gtefield", "Start")
		}
	}, CalendarRange{})

	return v
}

// Validate checks dates, spans and custom sections. Malformed slot keys are
// not an error here: they are reported by BuildCells and never rendered.
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	for i, sec := range cfg.CourseSections {
		for j, p := range sec.Periods {
			if err := validate.Var(p.Start, "clock"); err != nil {
				return fmt.Errorf("courseSections[%d].periods[%d].start %q: %w", i, j, p.Start, err)
			}
			if err := validate.Var(p.End, "clock"); err != nil {
				return fmt.Errorf("courseSections[%d].periods[%d].end %q: %w", i, j, p.End, err)
			}
		}
	}
	if len(cfg.CourseSections) > 0 {
		if err := timetable.ValidateSections(cfg.CourseSections); err != nil {
			return fmt.Errorf("courseSections: %w", err)
		}
	}
	return nil
}
