/*
Package session holds one worker's month of payroll input and recomputes
the payroll after every edit.

PURPOSE:
  The payroll and calendar packages are pure functions. This package owns
  the mutable side: the logged days, overrides and settings of a worker's
  month, the events that change them, and the persistence around them.

FLOW (one edit):
  Event -> State.Apply (validate, mutate) -> Store (persist raw input)
        -> State.Compute (classify every date, resolve, aggregate)

  Every event triggers a full recomputation from the persisted inputs. The
  result is never cached: the carry-forward balance depends on every
  weekday of the month in date order.

KEY CONCEPTS:
  - State:    Explicit month state passed to the pure engine
  - Event:    DayEdited, DayCleared, CoefficientSelected, OverrideToggled,
              OverridesReset, AllOverridesReset, SettingsChanged
  - Engine:   Serializes events, loads/persists State
  - Snapshot: A closed month's frozen Result

SEE ALSO:
  - payroll/aggregator.go: Compute
  - calendar/classify.go:  ClassifyDay
*/
package session

import (
	"time"

	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
)

// =============================================================================
// WORKER
// =============================================================================

type WorkerID string

type Worker struct {
	ID        WorkerID  `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// STATE - One worker's month
// =============================================================================

// State is everything a payroll run for one month reads. It replaces the
// ambient globals of a UI: pass it to Apply/Compute explicitly.
type State struct {
	Month     calendar.Month
	Settings  payroll.Settings
	Entries   map[string]payroll.DayEntry
	Overrides calendar.Overrides
	Holidays  calendar.HolidaySet
}

func NewState(month calendar.Month) *State {
	return &State{
		Month:     month,
		Entries:   make(map[string]payroll.DayEntry),
		Overrides: calendar.NewOverrides(),
		Holidays:  make(calendar.HolidaySet),
	}
}

// Apply validates ev against the state and mutates it. On error the state
// is unchanged.
func (s *State) Apply(ev Event) error {
	return ev.apply(s)
}

// Classify resolves every date of the month.
func (s *State) Classify() map[string]calendar.Classification {
	return calendar.ClassifyMonth(s.Month, s.Holidays, s.Overrides)
}

// Compute recomputes the month from scratch.
func (s *State) Compute() (payroll.Result, error) {
	return payroll.Compute(s.Entries, s.Classify(), s.Settings)
}

func (s *State) checkDate(d calendar.Date) error {
	if d.IsZero() || !s.Month.Contains(d) {
		return &DateError{Date: d, Month: s.Month}
	}
	return nil
}

// DateError reports an event dated outside its month.
type DateError struct {
	Date  calendar.Date
	Month calendar.Month
}

func (e *DateError) Error() string {
	return "date " + e.Date.String() + " is outside " + e.Month.String()
}

func (e *DateError) Unwrap() error { return ErrOutsideMonth }

// =============================================================================
// MONTH VIEW - Calendar data for one month
// =============================================================================

// DayView is one calendar cell: classification, override marker and, when
// logged, the entry and its resolution.
type DayView struct {
	Date           string                  `json:"date"`
	Weekday        string                  `json:"weekday"`
	Classification calendar.Classification `json:"classification"`
	Overridden     bool                    `json:"overridden"`
	Entry          *EntryView              `json:"entry,omitempty"`
}

type EntryView struct {
	Start         string  `json:"start"`
	End           string  `json:"end"`
	Coefficient   float64 `json:"coefficient"`
	Hours         float64 `json:"hours"`
	NormalHours   float64 `json:"normal_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	WeekendHours  float64 `json:"weekend_hours"`
	Resolved      bool    `json:"resolved"`
}

// Days builds the month's calendar cells. A weekday entry cannot be
// resolved without a standard shift; it is still shown, with Resolved false.
func (s *State) Days() []DayView {
	classes := s.Classify()
	days := make([]DayView, 0, len(classes))

	for _, d := range s.Month.Days() {
		key := d.String()
		class := classes[key]
		view := DayView{
			Date:           key,
			Weekday:        d.Weekday().String(),
			Classification: class,
			Overridden:     s.Overrides.Has(d),
		}

		if entry, ok := s.Entries[key]; ok {
			ev := &EntryView{
				Start:       entry.Start.String(),
				End:         entry.End.String(),
				Coefficient: entry.WeekendCoefficient().InexactFloat64(),
				Hours:       payroll.Duration(entry.Start, entry.End).Round(2).InexactFloat64(),
			}
			if rec, err := payroll.ResolveEntry(entry, s.Settings.Shift, class); err == nil {
				ev.Resolved = true
				ev.NormalHours = rec.NormalHours.Round(2).InexactFloat64()
				ev.OvertimeHours = rec.OvertimeHours.Round(2).InexactFloat64()
				ev.WeekendHours = rec.WeekendHours.Round(2).InexactFloat64()
			}
			view.Entry = ev
		}
		days = append(days, view)
	}
	return days
}
