package calendar

import (
	"context"
	"sort"
	"time"
)

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a non-working date, independent of the weekday it falls on.
type Holiday struct {
	ID        string `json:"id"`
	Date      Date   `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"` // same month/day every year
}

// In returns the date the holiday falls on in year. A recurring Feb 29
// has no date in non-leap years.
func (h Holiday) In(year int) (Date, bool) {
	if !h.Recurring {
		return h.Date, h.Date.Year() == year
	}
	d := NewDate(year, h.Date.Month(), h.Date.Day())
	return d, d.Month() == h.Date.Month()
}

// HolidayCalendar supplies the holiday list for a year. Implementations are
// resolved once per payroll run; the engine never calls them mid-computation.
type HolidayCalendar interface {
	Holidays(ctx context.Context, year int) ([]Holiday, error)
}

// OfficialCalendar is the fixed list of official non-moving holidays.
type OfficialCalendar struct{}

func (OfficialCalendar) Holidays(_ context.Context, year int) ([]Holiday, error) {
	return Official(year), nil
}

var officialDates = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "New Year Holidays"},
	{time.January, 2, "New Year Holidays"},
	{time.January, 3, "New Year Holidays"},
	{time.January, 4, "New Year Holidays"},
	{time.January, 5, "New Year Holidays"},
	{time.January, 6, "New Year Holidays"},
	{time.January, 7, "Orthodox Christmas"},
	{time.January, 8, "New Year Holidays"},
	{time.February, 23, "Defender of the Fatherland Day"},
	{time.March, 8, "International Women's Day"},
	{time.May, 1, "Spring and Labour Day"},
	{time.May, 9, "Victory Day"},
	{time.June, 12, "Russia Day"},
	{time.November, 4, "Unity Day"},
}

// Official returns the official holidays for year in date order.
func Official(year int) []Holiday {
	holidays := make([]Holiday, 0, len(officialDates))
	for _, o := range officialDates {
		holidays = append(holidays, Holiday{
			ID:        "official-" + NewDate(year, o.month, o.day).String(),
			Date:      NewDate(year, o.month, o.day),
			Name:      o.name,
			Recurring: true,
		})
	}
	return holidays
}

// Merged combines several calendars. Duplicate dates are kept once.
type Merged []HolidayCalendar

func (m Merged) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	seen := make(map[string]bool)
	var result []Holiday
	for _, c := range m {
		if c == nil {
			continue
		}
		holidays, err := c.Holidays(ctx, year)
		if err != nil {
			return nil, err
		}
		for _, h := range holidays {
			key := h.Date.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// =============================================================================
// HOLIDAY SET - Lookup form used by the classifier
// =============================================================================

type HolidaySet map[string]struct{}

func NewHolidaySet(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date.String()] = struct{}{}
	}
	return set
}

// HolidaySetOf builds a set straight from dates.
func HolidaySetOf(dates ...Date) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.String()] = struct{}{}
	}
	return set
}

func (s HolidaySet) Contains(d Date) bool {
	_, ok := s[d.String()]
	return ok
}
