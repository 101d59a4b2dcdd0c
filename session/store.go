/*
store.go - Persistence interfaces for the payroll session

PURPOSE:
  Only raw inputs are persisted: workers, their salary settings, logged
  days, manual overrides and custom holidays. Summaries and ledger rows are
  always recomputed. The one exception is a closed month, which freezes its
  computed Result as a Snapshot.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go:  SQLite, used by the server and CLI
  - session/store/memory.go: In-memory, for tests

SEE ALSO:
  - engine.go: The only caller
*/
package session

import (
	"context"
	"time"

	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
)

// =============================================================================
// STORE - Raw payroll inputs
// =============================================================================

type Store interface {
	SaveWorker(ctx context.Context, worker Worker) error
	// GetWorker returns ErrWorkerNotFound for an unknown ID.
	GetWorker(ctx context.Context, id WorkerID) (*Worker, error)
	ListWorkers(ctx context.Context) ([]Worker, error)

	// GetSettings returns nil, nil when the worker never saved settings.
	GetSettings(ctx context.Context, id WorkerID) (*payroll.Settings, error)
	SaveSettings(ctx context.Context, id WorkerID, settings payroll.Settings) error

	// LoadEntries returns the logged days of month keyed by ISO date.
	LoadEntries(ctx context.Context, id WorkerID, month calendar.Month) (map[string]payroll.DayEntry, error)
	SaveEntry(ctx context.Context, id WorkerID, date calendar.Date, entry payroll.DayEntry) error
	DeleteEntry(ctx context.Context, id WorkerID, date calendar.Date) error

	LoadOverrides(ctx context.Context, id WorkerID, month calendar.Month) (calendar.Overrides, error)
	SaveOverride(ctx context.Context, id WorkerID, kind calendar.OverrideKind, date calendar.Date, value bool) error
	// DeleteOverrides drops both overrides of one date.
	DeleteOverrides(ctx context.Context, id WorkerID, date calendar.Date) error
	// DeleteAllOverrides drops every override of the worker, all months.
	DeleteAllOverrides(ctx context.Context, id WorkerID) error
}

// HolidayStore persists custom holidays and serves them as a calendar.
type HolidayStore interface {
	calendar.HolidayCalendar

	SaveHoliday(ctx context.Context, holiday calendar.Holiday) error
	// DeleteHoliday returns ErrHolidayNotFound for an unknown ID.
	DeleteHoliday(ctx context.Context, id string) error
}

// =============================================================================
// SNAPSHOTS - Frozen results of closed months
// =============================================================================

type SnapshotReason string

const (
	SnapshotMonthEnd SnapshotReason = "month_end" // Closed by the scheduler
	SnapshotManual   SnapshotReason = "manual"    // Closed on request
)

// Snapshot freezes a month's Result at close time. Later edits to the
// month's days do not change it; closing again replaces it.
type Snapshot struct {
	ID       string              `json:"id"`
	WorkerID WorkerID            `json:"worker_id"`
	Month    calendar.Month      `json:"month"`
	TakenAt  time.Time           `json:"taken_at"`
	Reason   SnapshotReason      `json:"reason"`
	Summary  payroll.Summary     `json:"summary"`
	Rows     []payroll.LedgerRow `json:"rows"`
}

type SnapshotStore interface {
	// SaveSnapshot replaces any snapshot of the same worker and month.
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	// GetSnapshot returns nil, nil when the month was never closed.
	GetSnapshot(ctx context.Context, id WorkerID, month calendar.Month) (*Snapshot, error)
	// ListSnapshots returns the worker's snapshots, newest month first.
	ListSnapshots(ctx context.Context, id WorkerID) ([]Snapshot, error)
}
