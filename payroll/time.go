package payroll

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME OF DAY - "HH:MM" wall-clock time
// =============================================================================

type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM". Exactly two numeric parts are required,
// hours in [0,24) and minutes in [0,60).
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "expected HH:MM"}
	}

	hour, err := parseClockPart(parts[0])
	if err != nil {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "hours are not numeric"}
	}
	minute, err := parseClockPart(parts[1])
	if err != nil {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "minutes are not numeric"}
	}

	if hour >= 24 {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "hours out of range"}
	}
	if minute >= 60 {
		return TimeOfDay{}, &FormatError{Input: text, Reason: "minutes out of range"}
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// parseClockPart accepts only unsigned decimal digits.
func parseClockPart(s string) (int, error) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

// MustParseTimeOfDay is ParseTimeOfDay for literals.
func MustParseTimeOfDay(text string) TimeOfDay {
	t, err := ParseTimeOfDay(text)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseHours parses "HH:MM" straight into fractional hours.
func ParseHours(text string) (decimal.Decimal, error) {
	t, err := ParseTimeOfDay(text)
	if err != nil {
		return decimal.Zero, err
	}
	return t.Hours(), nil
}

// Hours returns the time as fractional hours since midnight.
func (t TimeOfDay) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(t.Hour)).
		Add(decimal.NewFromInt(int64(t.Minute)).Div(minutesPerHour))
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// MarshalText / UnmarshalText keep the "HH:MM" form in JSON and YAML.
func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// =============================================================================
// SHIFT DURATION
// =============================================================================

// ShiftDuration returns the paid hours between start and end (both in
// fractional hours). A negative span crosses midnight and gets 24h added.
// Spans of LunchThreshold or more lose LunchBreak. Never negative.
func ShiftDuration(start, end decimal.Decimal) decimal.Decimal {
	duration := end.Sub(start)
	if duration.IsNegative() {
		duration = duration.Add(hoursPerDay)
	}
	if duration.GreaterThanOrEqual(LunchThreshold) {
		duration = duration.Sub(LunchBreak)
	}
	if duration.IsNegative() {
		return decimal.Zero
	}
	return duration
}

// Duration is ShiftDuration for two wall-clock times.
func Duration(start, end TimeOfDay) decimal.Decimal {
	return ShiftDuration(start.Hours(), end.Hours())
}
