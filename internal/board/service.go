package board

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/internal/holiday"
	"github.com/username/teaching-board/internal/sharelink"
	"github.com/username/teaching-board/internal/timetable"
	"github.com/username/teaching-board/pkg/dateutil"
)

// Options control how views are composed
type Options struct {
	// Days is the number of weekday columns (5 or 7)
	Days           int
	HideYear       bool
	HighlightToday bool
	// WeekdayLabels overrides the column labels, Monday first
	WeekdayLabels []string
}

// DefaultOptions shows the whole week with today highlighted
func DefaultOptions() Options {
	return Options{Days: 7, HighlightToday: true}
}

// Service composes configs, holidays and the current time into views.
// The special-day set is shared by all views and refreshed in place.
type Service struct {
	source holiday.Source
	opts   Options
	logger *zap.Logger

	mu          sync.RWMutex
	special     calendar.SpecialDays
	years       map[int]bool
	refreshedAt time.Time
}

// NewService creates a new Service instance. source may be nil, in which
// case calendars carry no holidays.
func NewService(source holiday.Source, opts Options, logger *zap.Logger) *Service {
	if opts.Days <= 0 || opts.Days > len(timetable.DefaultWeekdays) {
		opts.Days = len(timetable.DefaultWeekdays)
	}
	return &Service{
		source:  source,
		opts:    opts,
		logger:  logger,
		special: make(calendar.SpecialDays),
		years:   make(map[int]bool),
	}
}

// RefreshHolidays loads the special days of years from the source. On
// failure the error is logged and the current set is kept unchanged.
func (s *Service) RefreshHolidays(ctx context.Context, years []int) error {
	if s.source == nil {
		return nil
	}

	special, err := holiday.Load(ctx, s.source, years)
	if special == nil {
		s.logger.Warn("Failed to load holidays, keeping current set",
			zap.Ints("years", years),
			zap.Error(err))
		s.markYears(years)
		return err
	}
	if err != nil {
		s.logger.Warn("Holiday feed has malformed entries", zap.Error(err))
	}

	s.mu.Lock()
	s.special.Merge(special)
	for _, y := range years {
		s.years[y] = true
	}
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("Holidays loaded",
		zap.Ints("years", years),
		zap.Int("special_days", len(special)))

	return err
}

// EnsureYears loads the years that were never attempted yet. Each year is
// tried once per process; the scheduled refresh retries the rest.
func (s *Service) EnsureYears(ctx context.Context, years []int) {
	var missing []int
	s.mu.RLock()
	for _, y := range years {
		if !s.years[y] {
			missing = append(missing, y)
		}
	}
	s.mu.RUnlock()

	if len(missing) == 0 {
		return
	}
	_ = s.RefreshHolidays(ctx, missing)
}

// LoadedYears returns the years a refresh was attempted for
func (s *Service) LoadedYears() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int, 0, len(s.years))
	for y := range s.years {
		out = append(out, y)
	}
	return out
}

// RefreshedAt returns when holidays were last loaded successfully
func (s *Service) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// ResetYears forgets attempted years so the next EnsureYears refetches
func (s *Service) ResetYears() {
	s.mu.Lock()
	s.years = make(map[int]bool)
	s.mu.Unlock()
}

func (s *Service) markYears(years []int) {
	s.mu.Lock()
	for _, y := range years {
		s.years[y] = true
	}
	s.mu.Unlock()
}

// SpecialDays returns a copy of the current special-day set
func (s *Service) SpecialDays() calendar.SpecialDays {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(calendar.SpecialDays, len(s.special))
	out.Merge(s.special)
	return out
}

// Options returns the display options of the service
func (s *Service) Options() Options {
	return s.opts
}

// Load decodes token (falling back to the default config), makes sure the
// holidays for the range are loaded and composes the view.
func (s *Service) Load(ctx context.Context, token string, now time.Time) *View {
	res := sharelink.Load(token, now)
	if res.Defaulted && token != "" {
		s.logger.Warn("Unusable config token, using default config", zap.Error(res.Err))
	}

	if r, err := res.Config.DateRange(); err == nil {
		s.EnsureYears(ctx, holiday.YearsFor(now, r))
	}

	v := s.View(res.Config, now)
	v.Warning = res.Warning
	return v
}

// View composes cfg at now. It never touches the network.
func (s *Service) View(cfg *sharelink.AppConfig, now time.Time) *View {
	cells, invalid := cfg.BuildCells()
	if len(invalid) > 0 {
		s.logger.Debug("Ignoring malformed slot keys", zap.Strings("keys", invalid))
	}

	sections := cfg.Sections()
	plan := timetable.Resolve(sections, cells, timetable.Options{Days: s.opts.Days, Now: &now})

	v := &View{
		Config:          cfg,
		Now:             now,
		Weekdays:        s.weekdayLabels(),
		TodayIndex:      -1,
		Periods:         sections,
		Plan:            plan,
		Invalid:         invalid,
		CenterImage:     cfg.CenterImage,
		BackgroundImage: cfg.BackgroundImage,
	}
	if token, err := sharelink.Encode(cfg); err == nil {
		v.Token = token
	}

	gridOpts := calendar.Options{HideYear: s.opts.HideYear}
	if s.opts.HighlightToday {
		gridOpts.Now = &now
		if idx := dateutil.WeekdayIndex(now); idx < s.opts.Days {
			v.TodayIndex = idx
		}
	}

	if r, err := cfg.DateRange(); err == nil {
		v.Grid = calendar.Build(r, s.SpecialDays(), gridOpts)
	} else {
		v.Grid = &calendar.Grid{}
	}

	return v
}

func (s *Service) weekdayLabels() []string {
	labels := timetable.DefaultWeekdays
	if len(s.opts.WeekdayLabels) == len(timetable.DefaultWeekdays) {
		labels = s.opts.WeekdayLabels
	}
	return labels[:s.opts.Days]
}
