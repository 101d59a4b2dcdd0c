package session

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
)

// =============================================================================
// EVENTS - Every way a month can change
// =============================================================================

// Event is one user edit. apply validates and mutates the in-memory State;
// persist writes the same change through the Store.
type Event interface {
	apply(s *State) error
	persist(ctx context.Context, store Store, worker WorkerID, s *State) error
}

// DayEdited logs hours for a date. An empty Start or End clears the day.
// A nil Coefficient keeps the previously selected one.
type DayEdited struct {
	Date        calendar.Date
	Start       string
	End         string
	Coefficient *decimal.Decimal
}

func (e DayEdited) clears() bool { return e.Start == "" || e.End == "" }

func (e DayEdited) apply(s *State) error {
	if err := s.checkDate(e.Date); err != nil {
		return err
	}
	if e.clears() {
		delete(s.Entries, e.Date.String())
		return nil
	}

	start, err := payroll.ParseTimeOfDay(e.Start)
	if err != nil {
		return err
	}
	end, err := payroll.ParseTimeOfDay(e.End)
	if err != nil {
		return err
	}

	entry := payroll.DayEntry{Start: start, End: end}
	if e.Coefficient != nil {
		if !payroll.IsAllowedCoefficient(*e.Coefficient) {
			return payroll.ErrInvalidCoefficient
		}
		c := *e.Coefficient
		entry.Coefficient = &c
	} else if prev, ok := s.Entries[e.Date.String()]; ok {
		entry.Coefficient = prev.Coefficient
	}

	s.Entries[e.Date.String()] = entry
	return nil
}

func (e DayEdited) persist(ctx context.Context, store Store, worker WorkerID, s *State) error {
	if e.clears() {
		return store.DeleteEntry(ctx, worker, e.Date)
	}
	return store.SaveEntry(ctx, worker, e.Date, s.Entries[e.Date.String()])
}

// DayCleared removes a date's logged hours. Clearing an unlogged date is a no-op.
type DayCleared struct {
	Date calendar.Date
}

func (e DayCleared) apply(s *State) error {
	if err := s.checkDate(e.Date); err != nil {
		return err
	}
	delete(s.Entries, e.Date.String())
	return nil
}

func (e DayCleared) persist(ctx context.Context, store Store, worker WorkerID, _ *State) error {
	return store.DeleteEntry(ctx, worker, e.Date)
}

// CoefficientSelected picks the weekend coefficient for a logged date. It is
// kept on weekdays too but only paid when the date follows the weekend rule.
type CoefficientSelected struct {
	Date        calendar.Date
	Coefficient decimal.Decimal
}

func (e CoefficientSelected) apply(s *State) error {
	if err := s.checkDate(e.Date); err != nil {
		return err
	}
	if !payroll.IsAllowedCoefficient(e.Coefficient) {
		return payroll.ErrInvalidCoefficient
	}
	entry, ok := s.Entries[e.Date.String()]
	if !ok {
		return ErrDayNotWorked
	}
	c := e.Coefficient
	entry.Coefficient = &c
	s.Entries[e.Date.String()] = entry
	return nil
}

func (e CoefficientSelected) persist(ctx context.Context, store Store, worker WorkerID, s *State) error {
	return store.SaveEntry(ctx, worker, e.Date, s.Entries[e.Date.String()])
}

// OverrideToggled forces the weekend or holiday flag of a date.
type OverrideToggled struct {
	Date  calendar.Date
	Kind  calendar.OverrideKind
	Value bool
}

func (e OverrideToggled) apply(s *State) error {
	if err := s.checkDate(e.Date); err != nil {
		return err
	}
	return s.Overrides.Set(e.Kind, e.Date, e.Value)
}

func (e OverrideToggled) persist(ctx context.Context, store Store, worker WorkerID, _ *State) error {
	return store.SaveOverride(ctx, worker, e.Kind, e.Date, e.Value)
}

// OverridesReset returns one date to its computed classification.
type OverridesReset struct {
	Date calendar.Date
}

func (e OverridesReset) apply(s *State) error {
	if err := s.checkDate(e.Date); err != nil {
		return err
	}
	s.Overrides.Reset(e.Date)
	return nil
}

func (e OverridesReset) persist(ctx context.Context, store Store, worker WorkerID, _ *State) error {
	return store.DeleteOverrides(ctx, worker, e.Date)
}

// AllOverridesReset drops every override of the worker, in every month.
type AllOverridesReset struct{}

func (AllOverridesReset) apply(s *State) error {
	s.Overrides.ResetAll()
	return nil
}

func (AllOverridesReset) persist(ctx context.Context, store Store, worker WorkerID, _ *State) error {
	return store.DeleteAllOverrides(ctx, worker)
}

// SettingsChanged replaces the worker's salary settings. Settings are
// stored even when they cannot produce a summary; Compute reports that.
type SettingsChanged struct {
	Settings payroll.Settings
}

func (e SettingsChanged) apply(s *State) error {
	s.Settings = e.Settings
	return nil
}

func (e SettingsChanged) persist(ctx context.Context, store Store, worker WorkerID, _ *State) error {
	return store.SaveSettings(ctx, worker, e.Settings)
}
