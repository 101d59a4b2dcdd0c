package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
)

// =============================================================================
// ENGINE - Event dispatch and recomputation
// =============================================================================

// Engine applies events one at a time. Each Dispatch runs
// load -> apply -> persist -> recompute to completion before the next starts.
type Engine struct {
	Store     Store
	Snapshots SnapshotStore

	// Holidays classifies dates; Custom is where user holidays are kept.
	// NewEngine merges the official list with Custom.
	Holidays calendar.HolidayCalendar
	Custom   HolidayStore

	// Defaults are used for workers that never saved settings.
	Defaults payroll.Settings

	// Now is the clock for snapshots and month closing.
	Now func() time.Time

	mu sync.Mutex
}

func NewEngine(store Store, snapshots SnapshotStore, custom HolidayStore) *Engine {
	e := &Engine{
		Store:     store,
		Snapshots: snapshots,
		Holidays:  calendar.Merged{calendar.OfficialCalendar{}},
		Custom:    custom,
		Now:       time.Now,
	}
	if custom != nil {
		e.Holidays = calendar.Merged{calendar.OfficialCalendar{}, custom}
	}
	return e
}

// Calculation is the outcome of one recomputation. When the settings cannot
// produce a summary, Result is nil and NotComputed says why.
type Calculation struct {
	Month       calendar.Month  `json:"month"`
	Result      *payroll.Result `json:"result,omitempty"`
	NotComputed error           `json:"-"`
}

func (c *Calculation) Computed() bool { return c.Result != nil }

// Report returns the formatted result, or NotComputed.
func (c *Calculation) Report() (payroll.Report, error) {
	if c.Result == nil {
		return payroll.Report{}, c.NotComputed
	}
	return payroll.Format(*c.Result), nil
}

// =============================================================================
// WORKERS
// =============================================================================

func (e *Engine) AddWorker(ctx context.Context, name string) (*Worker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidWorker
	}
	w := Worker{ID: WorkerID(uuid.NewString()), Name: name, CreatedAt: e.Now().UTC()}
	if err := e.Store.SaveWorker(ctx, w); err != nil {
		return nil, fmt.Errorf("save worker: %w", err)
	}
	return &w, nil
}

// Settings returns the worker's saved settings or the engine defaults.
func (e *Engine) Settings(ctx context.Context, worker WorkerID) (payroll.Settings, error) {
	if _, err := e.Store.GetWorker(ctx, worker); err != nil {
		return payroll.Settings{}, err
	}
	return e.settings(ctx, worker)
}

func (e *Engine) settings(ctx context.Context, worker WorkerID) (payroll.Settings, error) {
	saved, err := e.Store.GetSettings(ctx, worker)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if saved == nil {
		return e.Defaults, nil
	}
	return *saved, nil
}

// =============================================================================
// LOAD / DISPATCH
// =============================================================================

// Load assembles the State of a worker's month from the stores.
func (e *Engine) Load(ctx context.Context, worker WorkerID, month calendar.Month) (*State, error) {
	if _, err := e.Store.GetWorker(ctx, worker); err != nil {
		return nil, err
	}

	state := NewState(month)

	settings, err := e.settings(ctx, worker)
	if err != nil {
		return nil, err
	}
	state.Settings = settings

	entries, err := e.Store.LoadEntries(ctx, worker, month)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	state.Entries = entries

	overrides, err := e.Store.LoadOverrides(ctx, worker, month)
	if err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}
	state.Overrides = overrides

	if e.Holidays != nil {
		holidays, err := e.Holidays.Holidays(ctx, month.Year)
		if err != nil {
			return nil, fmt.Errorf("load holidays: %w", err)
		}
		state.Holidays = calendar.NewHolidaySet(holidays)
	}
	return state, nil
}

// Dispatch applies one event to a worker's month, persists it and
// recomputes the month. A rejected event changes nothing.
func (e *Engine) Dispatch(ctx context.Context, worker WorkerID, month calendar.Month, ev Event) (*Calculation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.Load(ctx, worker, month)
	if err != nil {
		return nil, err
	}
	if err := state.Apply(ev); err != nil {
		return nil, err
	}
	if err := ev.persist(ctx, e.Store, worker, state); err != nil {
		return nil, fmt.Errorf("persist %T: %w", ev, err)
	}
	return calculate(state)
}

// Calculate recomputes a month without changing it.
func (e *Engine) Calculate(ctx context.Context, worker WorkerID, month calendar.Month) (*Calculation, error) {
	state, err := e.Load(ctx, worker, month)
	if err != nil {
		return nil, err
	}
	return calculate(state)
}

func calculate(state *State) (*Calculation, error) {
	calc := &Calculation{Month: state.Month}
	result, err := state.Compute()
	switch {
	case err == nil:
		calc.Result = &result
	case payroll.IsNotComputed(err):
		calc.NotComputed = err
	default:
		return nil, err
	}
	return calc, nil
}

// =============================================================================
// MONTH VIEW
// =============================================================================

type MonthView struct {
	Month       calendar.Month  `json:"month"`
	Days        []DayView       `json:"days"`
	Computed    bool            `json:"computed"`
	NotComputed string          `json:"not_computed,omitempty"`
	Report      *payroll.Report `json:"report,omitempty"`
}

// Month returns the calendar cells of a month together with its payroll.
func (e *Engine) Month(ctx context.Context, worker WorkerID, month calendar.Month) (*MonthView, error) {
	state, err := e.Load(ctx, worker, month)
	if err != nil {
		return nil, err
	}
	calc, err := calculate(state)
	if err != nil {
		return nil, err
	}

	view := &MonthView{Month: month, Days: state.Days(), Computed: calc.Computed()}
	if report, err := calc.Report(); err == nil {
		view.Report = &report
	} else {
		view.NotComputed = err.Error()
	}
	return view, nil
}

// =============================================================================
// MONTH CLOSE
// =============================================================================

// CloseMonth computes a month and freezes the Result as a Snapshot.
// Months that have not started cannot be closed; closing again replaces
// the previous snapshot.
func (e *Engine) CloseMonth(ctx context.Context, worker WorkerID, month calendar.Month, reason SnapshotReason) (*Snapshot, error) {
	now := e.Now().UTC()
	current := calendar.NewMonth(now.Year(), now.Month())
	if current.Before(month) {
		return nil, fmt.Errorf("%w: %s", ErrFutureMonth, month)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	calc, err := e.Calculate(ctx, worker, month)
	if err != nil {
		return nil, err
	}
	if !calc.Computed() {
		return nil, calc.NotComputed
	}

	snapshot := Snapshot{
		ID:       uuid.NewString(),
		WorkerID: worker,
		Month:    month,
		TakenAt:  now,
		Reason:   reason,
		Summary:  calc.Result.Summary,
		Rows:     calc.Result.Rows,
	}
	if err := e.Snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return &snapshot, nil
}

// Snapshot returns the frozen result of a closed month.
func (e *Engine) Snapshot(ctx context.Context, worker WorkerID, month calendar.Month) (*Snapshot, error) {
	snap, err := e.Snapshots.GetSnapshot(ctx, worker, month)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, month)
	}
	return snap, nil
}

// CloseDue closes the month before now for every worker that has no
// snapshot for it yet. Workers whose month cannot be computed are skipped
// and reported in the returned map.
func (e *Engine) CloseDue(ctx context.Context) (closed []Snapshot, skipped map[WorkerID]error, err error) {
	now := e.Now().UTC()
	month := calendar.NewMonth(now.Year(), now.Month()).Previous()

	workers, err := e.Store.ListWorkers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list workers: %w", err)
	}

	skipped = make(map[WorkerID]error)
	for _, w := range workers {
		existing, err := e.Snapshots.GetSnapshot(ctx, w.ID, month)
		if err != nil {
			return closed, skipped, err
		}
		if existing != nil {
			continue
		}
		snap, err := e.CloseMonth(ctx, w.ID, month, SnapshotMonthEnd)
		if err != nil {
			skipped[w.ID] = err
			continue
		}
		closed = append(closed, *snap)
	}
	return closed, skipped, nil
}
