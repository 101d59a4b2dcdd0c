/*
Package calendar decides what kind of day a date is.

PURPOSE:
  Payroll pays weekday hours and weekend/holiday hours by different rules.
  This package owns the calendar side of that split: day-granularity dates,
  months, the official holiday list, and the manual overrides a user can
  place on any single date.

KEY CONCEPTS:
  - Date:           A calendar day (UTC, no time of day)
  - Month:          A year+month, the unit of one payroll run
  - HolidayCalendar: Source of holiday dates for a year
  - Overrides:      User-forced weekend/holiday status per date
  - Classification: The resolved {IsWeekend, IsHoliday} for one date

PRECEDENCE:
  Default weekend = Saturday or Sunday.
  Default holiday = date is in the year's holiday list.
  An override present for a date replaces the default for that flag,
  whatever its value. Weekend and holiday overrides are independent.

SEE ALSO:
  - classify.go: ClassifyDay, Overrides
  - holidays.go: Official holiday list, HolidayCalendar
  - payroll/resolver.go: Consumes Classification
*/
package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

// DateLayout is the ISO layout used for every date key in the system.
const DateLayout = "2006-01-02"

// Date is a calendar day. The zero value is not a valid date.
type Date struct {
	Time time.Time
}

// NewDate normalizes year/month/day into a UTC date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals in tests and presets.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// String returns the ISO key form. Lexicographic order of these strings
// equals chronological order.
func (d Date) String() string { return d.Time.Format(DateLayout) }

// MonthOf returns the month containing d.
func (d Date) MonthOf() Month { return Month{Year: d.Year(), Month: d.Month()} }

// MarshalText / UnmarshalText keep dates as ISO strings in JSON.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// MONTH - One payroll period
// =============================================================================

// MonthLayout is the "YYYY-MM" form used in URLs and CLI flags.
const MonthLayout = "2006-01"

type Month struct {
	Year  int
	Month time.Month
}

func NewMonth(year int, month time.Month) Month { return Month{Year: year, Month: month} }

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func CurrentMonth() Month { return Today().MonthOf() }

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// Start is the first day of the month.
func (m Month) Start() Date { return NewDate(m.Year, m.Month, 1) }

// End is the last day of the month.
func (m Month) End() Date { return NewDate(m.Year, m.Month+1, 1).AddDays(-1) }

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// Days returns every day of the month in ascending order.
func (m Month) Days() []Date {
	var days []Date
	end := m.End()
	for current := m.Start(); current.BeforeOrEqual(end); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (m Month) Previous() Month { return m.Start().AddDays(-1).MonthOf() }
func (m Month) Next() Month     { return m.End().AddDays(1).MonthOf() }

// Before reports whether m is an earlier month than other.
func (m Month) Before(other Month) bool {
	return m.Year < other.Year || (m.Year == other.Year && m.Month < other.Month)
}

func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
