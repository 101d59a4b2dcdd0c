package calendar

import "fmt"

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classification is derived per date and never stored on a worked day.
type Classification struct {
	IsWeekend bool `json:"is_weekend"`
	IsHoliday bool `json:"is_holiday"`
}

// WeekendRule reports whether the day is paid under the weekend rule.
func (c Classification) WeekendRule() bool { return c.IsWeekend || c.IsHoliday }

// =============================================================================
// OVERRIDES - User-forced weekend/holiday status
// =============================================================================

type OverrideKind string

const (
	OverrideWeekend OverrideKind = "weekend"
	OverrideHoliday OverrideKind = "holiday"
)

func ParseOverrideKind(s string) (OverrideKind, error) {
	switch OverrideKind(s) {
	case OverrideWeekend, OverrideHoliday:
		return OverrideKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOverride, s)
	}
}

// Overrides holds two date-keyed mappings. Presence of a key, whatever its
// value, means the user touched that date.
type Overrides struct {
	Weekends map[string]bool `json:"weekends"`
	Holidays map[string]bool `json:"holidays"`
}

func NewOverrides() Overrides {
	return Overrides{Weekends: make(map[string]bool), Holidays: make(map[string]bool)}
}

// Set forces the kind flag for date.
func (o *Overrides) Set(kind OverrideKind, date Date, value bool) error {
	if o.Weekends == nil {
		o.Weekends = make(map[string]bool)
	}
	if o.Holidays == nil {
		o.Holidays = make(map[string]bool)
	}
	switch kind {
	case OverrideWeekend:
		o.Weekends[date.String()] = value
	case OverrideHoliday:
		o.Holidays[date.String()] = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOverride, kind)
	}
	return nil
}

// Reset drops both overrides for date.
func (o *Overrides) Reset(date Date) {
	delete(o.Weekends, date.String())
	delete(o.Holidays, date.String())
}

func (o *Overrides) ResetAll() {
	o.Weekends = make(map[string]bool)
	o.Holidays = make(map[string]bool)
}

// Has reports whether either flag was set by hand for date.
func (o Overrides) Has(date Date) bool {
	key := date.String()
	_, w := o.Weekends[key]
	_, h := o.Holidays[key]
	return w || h
}

func (o Overrides) Clone() Overrides {
	c := NewOverrides()
	for k, v := range o.Weekends {
		c.Weekends[k] = v
	}
	for k, v := range o.Holidays {
		c.Holidays[k] = v
	}
	return c
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// ClassifyDay resolves the weekend and holiday flags for one date. Pure.
func ClassifyDay(date Date, holidays HolidaySet, overrides Overrides) Classification {
	key := date.String()

	isWeekend := date.IsWeekend()
	if forced, ok := overrides.Weekends[key]; ok {
		isWeekend = forced
	}

	isHoliday := holidays.Contains(date)
	if forced, ok := overrides.Holidays[key]; ok {
		isHoliday = forced
	}

	return Classification{IsWeekend: isWeekend, IsHoliday: isHoliday}
}

// ClassifyMonth classifies every day of month, keyed by ISO date.
func ClassifyMonth(month Month, holidays HolidaySet, overrides Overrides) map[string]Classification {
	result := make(map[string]Classification)
	for _, d := range month.Days() {
		result[d.String()] = ClassifyDay(d, holidays, overrides)
	}
	return result
}
