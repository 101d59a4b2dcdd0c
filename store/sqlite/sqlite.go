/*
Package sqlite provides a SQLite-backed implementation of the session stores.

PURPOSE:
  Persists the raw payroll inputs (workers, settings, logged days,
  overrides, custom holidays) and the snapshots of closed months.
  Summaries are never stored except inside a snapshot.

INTERFACES IMPLEMENTED:
  session.Store:         Workers, settings, work days, overrides
  session.HolidayStore:  Custom holidays (also a calendar.HolidayCalendar)
  session.SnapshotStore: Closed-month snapshots

KEY TABLES:
  workers:           Worker records
  settings:          One row per worker; shift, salary, working days, bonus
  work_days:         One row per worker and date; start/end, coefficient
  overrides:         One row per worker, date and kind (weekend/holiday)
  holidays:          Custom holidays, optionally recurring
  payroll_snapshots: Frozen summary + rows per worker and month

DECIMALS:
  Salary, bonus and coefficients are stored as TEXT decimal strings so no
  precision is lost through float conversion.

DATES:
  Dates are ISO "YYYY-MM-DD" TEXT, which sorts chronologically, so month
  queries are plain string range scans.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := session.NewEngine(store, store, store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - session/store.go: Interface definitions
  - session/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		worker_id TEXT PRIMARY KEY REFERENCES workers(id) ON DELETE CASCADE,
		shift_start TEXT,
		shift_end TEXT,
		base_salary TEXT NOT NULL,
		working_days INTEGER NOT NULL,
		bonus TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One logged shift per worker and date
	CREATE TABLE IF NOT EXISTS work_days (
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		coefficient TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (worker_id, date)
	);

	-- Presence of a row means the user touched the date
	CREATE TABLE IF NOT EXISTS overrides (
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('weekend', 'holiday')),
		value BOOLEAN NOT NULL,
		PRIMARY KEY (worker_id, date, kind)
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);

	CREATE TABLE IF NOT EXISTS payroll_snapshots (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		month TEXT NOT NULL,
		reason TEXT NOT NULL,
		summary_json TEXT NOT NULL,
		rows_json TEXT NOT NULL,
		taken_at TEXT NOT NULL,
		UNIQUE(worker_id, month)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKERS
// =============================================================================

// SaveWorker inserts or renames a worker.
func (s *Store) SaveWorker(ctx context.Context, w session.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO workers (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name
	`

	_, err := s.db.ExecContext(ctx, query, w.ID, w.Name, w.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// GetWorker returns session.ErrWorkerNotFound for an unknown ID.
func (s *Store) GetWorker(ctx context.Context, id session.WorkerID) (*session.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var w session.Worker
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM workers WHERE id = ?", id,
	).Scan(&w.ID, &w.Name, &createdAt)

	if err == sql.ErrNoRows {
		return nil, session.ErrWorkerNotFound
	}
	if err != nil {
		return nil, err
	}

	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &w, nil
}

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(ctx context.Context) ([]session.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM workers ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []session.Worker
	for rows.Next() {
		var w session.Worker
		var createdAt string
		if err := rows.Scan(&w.ID, &w.Name, &createdAt); err != nil {
			return nil, err
		}
		w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns nil, nil when the worker never saved settings.
func (s *Store) GetSettings(ctx context.Context, id session.WorkerID) (*payroll.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var start, end sql.NullString
	var salary, bonus string
	var settings payroll.Settings

	err := s.db.QueryRowContext(ctx,
		`SELECT shift_start, shift_end, base_salary, working_days, bonus
		 FROM settings WHERE worker_id = ?`, id,
	).Scan(&start, &end, &salary, &settings.WorkingDays, &bonus)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if start.Valid && end.Valid {
		shift := payroll.StandardShift{}
		if shift.Start, err = payroll.ParseTimeOfDay(start.String); err != nil {
			return nil, fmt.Errorf("stored shift start: %w", err)
		}
		if shift.End, err = payroll.ParseTimeOfDay(end.String); err != nil {
			return nil, fmt.Errorf("stored shift end: %w", err)
		}
		settings.Shift = &shift
	}
	if settings.BaseSalary, err = parseDecimal(salary); err != nil {
		return nil, err
	}
	if settings.Bonus, err = parseDecimal(bonus); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings replaces the worker's settings. A nil shift is stored as NULL.
func (s *Store) SaveSettings(ctx context.Context, id session.WorkerID, settings payroll.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var start, end sql.NullString
	if settings.Shift != nil {
		start = nullString(settings.Shift.Start.String())
		end = nullString(settings.Shift.End.String())
	}

	query := `
		INSERT INTO settings (worker_id, shift_start, shift_end, base_salary, working_days, bonus, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id) DO UPDATE SET
			shift_start = excluded.shift_start,
			shift_end = excluded.shift_end,
			base_salary = excluded.base_salary,
			working_days = excluded.working_days,
			bonus = excluded.bonus,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		id, start, end,
		settings.BaseSalary.String(),
		settings.WorkingDays,
		settings.Bonus.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// WORK DAYS
// =============================================================================

// LoadEntries returns the logged days of month keyed by ISO date.
func (s *Store) LoadEntries(ctx context.Context, id session.WorkerID, month calendar.Month) (map[string]payroll.DayEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, start_time, end_time, coefficient FROM work_days
		 WHERE worker_id = ? AND date BETWEEN ? AND ?`,
		id, month.Start().String(), month.End().String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]payroll.DayEntry)
	for rows.Next() {
		var date, start, end string
		var coefficient sql.NullString
		if err := rows.Scan(&date, &start, &end, &coefficient); err != nil {
			return nil, err
		}

		var entry payroll.DayEntry
		if entry.Start, err = payroll.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("stored day %s: %w", date, err)
		}
		if entry.End, err = payroll.ParseTimeOfDay(end); err != nil {
			return nil, fmt.Errorf("stored day %s: %w", date, err)
		}
		if coefficient.Valid {
			c, err := parseDecimal(coefficient.String)
			if err != nil {
				return nil, err
			}
			entry.Coefficient = &c
		}
		entries[date] = entry
	}
	return entries, rows.Err()
}

func (s *Store) SaveEntry(ctx context.Context, id session.WorkerID, date calendar.Date, entry payroll.DayEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var coefficient sql.NullString
	if entry.Coefficient != nil {
		coefficient = nullString(entry.Coefficient.String())
	}

	query := `
		INSERT INTO work_days (worker_id, date, start_time, end_time, coefficient, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, date) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			coefficient = excluded.coefficient,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		id, date.String(), entry.Start.String(), entry.End.String(), coefficient,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) DeleteEntry(ctx context.Context, id session.WorkerID, date calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM work_days WHERE worker_id = ? AND date = ?", id, date.String())
	return err
}

// =============================================================================
// OVERRIDES
// =============================================================================

func (s *Store) LoadOverrides(ctx context.Context, id session.WorkerID, month calendar.Month) (calendar.Overrides, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overrides := calendar.NewOverrides()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, kind, value FROM overrides
		 WHERE worker_id = ? AND date BETWEEN ? AND ?`,
		id, month.Start().String(), month.End().String(),
	)
	if err != nil {
		return overrides, err
	}
	defer rows.Close()

	for rows.Next() {
		var date, kind string
		var value bool
		if err := rows.Scan(&date, &kind, &value); err != nil {
			return overrides, err
		}
		switch calendar.OverrideKind(kind) {
		case calendar.OverrideWeekend:
			overrides.Weekends[date] = value
		case calendar.OverrideHoliday:
			overrides.Holidays[date] = value
		}
	}
	return overrides, rows.Err()
}

func (s *Store) SaveOverride(ctx context.Context, id session.WorkerID, kind calendar.OverrideKind, date calendar.Date, value bool) error {
	if _, err := calendar.ParseOverrideKind(string(kind)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO overrides (worker_id, date, kind, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(worker_id, date, kind) DO UPDATE SET
			value = excluded.value
	`

	_, err := s.db.ExecContext(ctx, query, id, date.String(), string(kind), value)
	return err
}

func (s *Store) DeleteOverrides(ctx context.Context, id session.WorkerID, date calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM overrides WHERE worker_id = ? AND date = ?", id, date.String())
	return err
}

func (s *Store) DeleteAllOverrides(ctx context.Context, id session.WorkerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM overrides WHERE worker_id = ?", id)
	return err
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a custom holiday. The same date and name may exist once.
func (s *Store) SaveHoliday(ctx context.Context, h calendar.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.Date.String(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return session.ErrDuplicateHoliday
	}
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.ErrHolidayNotFound
	}
	return nil
}

// Holidays returns the custom holidays falling in year. Recurring ones are
// moved to that year.
func (s *Store) Holidays(ctx context.Context, year int) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, name, recurring
		FROM holidays
		WHERE recurring = TRUE OR strftime('%Y', date) = ?
		ORDER BY strftime('%m-%d', date) ASC, name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, err
		}
		if d, ok := h.In(year); ok {
			h.Date = d
			holidays = append(holidays, h)
		}
	}
	return holidays, rows.Err()
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// SaveSnapshot saves a closed month, replacing an earlier close.
func (s *Store) SaveSnapshot(ctx context.Context, snap session.Snapshot) error {
	summaryJSON, err := json.Marshal(snap.Summary)
	if err != nil {
		return err
	}
	rowsJSON, err := json.Marshal(snap.Rows)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO payroll_snapshots (id, worker_id, month, reason, summary_json, rows_json, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, month) DO UPDATE SET
			id = excluded.id,
			reason = excluded.reason,
			summary_json = excluded.summary_json,
			rows_json = excluded.rows_json,
			taken_at = excluded.taken_at
	`

	_, err = s.db.ExecContext(ctx, query,
		snap.ID, snap.WorkerID, snap.Month.String(), snap.Reason,
		string(summaryJSON), string(rowsJSON),
		snap.TakenAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetSnapshot returns nil, nil when the month was never closed.
func (s *Store) GetSnapshot(ctx context.Context, id session.WorkerID, month calendar.Month) (*session.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, snapshotSelect+" WHERE worker_id = ? AND month = ?", id, month.String())
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ListSnapshots returns the worker's snapshots, newest month first.
func (s *Store) ListSnapshots(ctx context.Context, id session.WorkerID) ([]session.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, snapshotSelect+" WHERE worker_id = ? ORDER BY month DESC", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []session.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	return snapshots, rows.Err()
}

const snapshotSelect = `SELECT id, worker_id, month, reason, summary_json, rows_json, taken_at FROM payroll_snapshots`

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*session.Snapshot, error) {
	var snap session.Snapshot
	var month, reason, summaryJSON, rowsJSON, takenAt string

	if err := row.Scan(&snap.ID, &snap.WorkerID, &month, &reason, &summaryJSON, &rowsJSON, &takenAt); err != nil {
		return nil, err
	}

	m, err := calendar.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	snap.Month = m
	snap.Reason = session.SnapshotReason(reason)
	snap.TakenAt, _ = time.Parse(time.RFC3339, takenAt)

	if err := json.Unmarshal([]byte(summaryJSON), &snap.Summary); err != nil {
		return nil, fmt.Errorf("snapshot summary: %w", err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &snap.Rows); err != nil {
		return nil, fmt.Errorf("snapshot rows: %w", err)
	}
	return &snap, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"payroll_snapshots", "overrides", "work_days", "settings", "holidays", "workers"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseDecimal(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stored decimal %q: %w", value, err)
	}
	return d, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
