package holiday

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/pkg/dateutil"
)

// DefaultFeedURL is the public China holiday feed
const DefaultFeedURL = "https://www.shuyz.com/githubfiles/china-holiday-calender/master/holidayAPI.json"

// MakeupSuffix is appended to a holiday's name for its comp working days
const MakeupSuffix = "调休"

// Entry is one holiday range with its comp working days
type Entry struct {
	Name      string   `json:"Name"`
	StartDate string   `json:"StartDate"`
	EndDate   string   `json:"EndDate"`
	Duration  int      `json:"Duration"`
	CompDays  []string `json:"CompDays"`
	URL       string   `json:"URL"`
	Memo      string   `json:"Memo"`
}

// Feed is the holiday document, keyed by year
type Feed struct {
	Name      string             `json:"Name"`
	Version   string             `json:"Version"`
	Generated string             `json:"Generated"`
	Timezone  string             `json:"Timezone"`
	Years     map[string][]Entry `json:"Years"`
}

// Source provides the holiday feed
type Source interface {
	Fetch(ctx context.Context) (*Feed, error)
}

// StaticSource serves a fixed feed; an empty one when holidays are disabled
type StaticSource struct {
	Feed *Feed
}

// Fetch returns the fixed feed
func (s StaticSource) Fetch(ctx context.Context) (*Feed, error) {
	if s.Feed == nil {
		return &Feed{Years: map[string][]Entry{}}, nil
	}
	return s.Feed, nil
}

// YearsFor returns the years whose holidays matter: the current year, the
// next one, and every year touched by the teaching range.
func YearsFor(now time.Time, r calendar.DateRange) []int {
	set := map[int]struct{}{now.Year(): {}, now.Year() + 1: {}}
	if r.Valid() {
		for y := r.Start.Year(); y <= r.End.Year(); y++ {
			set[y] = struct{}{}
		}
	}

	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Expand turns feed entries of the given years into special days: a holiday
// for every date in [StartDate, EndDate] and a makeup day per comp day.
// Malformed entries are skipped and reported in the joined error while the
// valid ones are still returned.
func Expand(feed *Feed, years []int) ([]calendar.SpecialDay, error) {
	if feed == nil {
		return nil, nil
	}

	var days []calendar.SpecialDay
	var errs []error

	for _, y := range years {
		for _, e := range feed.Years[strconv.Itoa(y)] {
			start, err := dateutil.ParseDate(e.StartDate)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
				continue
			}
			end, err := dateutil.ParseDate(e.EndDate)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", e.Name, err))
				continue
			}

			for d := start; !d.After(end); d = dateutil.AddDays(d, 1) {
				days = append(days, calendar.SpecialDay{Date: d, Name: e.Name, Type: calendar.SpecialHoliday})
			}

			for _, cd := range e.CompDays {
				d, err := dateutil.ParseDate(cd)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s comp day: %w", e.Name, err))
					continue
				}
				days = append(days, calendar.SpecialDay{Date: d, Name: e.Name + MakeupSuffix, Type: calendar.SpecialMakeup})
			}
		}
	}

	return days, errors.Join(errs...)
}

// Load fetches the feed from src and indexes the special days of years
func Load(ctx context.Context, src Source, years []int) (calendar.SpecialDays, error) {
	feed, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	days, err := Expand(feed, years)
	return calendar.IndexSpecialDays(days), err
}
