// Package store provides in-memory session stores.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements session.Store, session.SnapshotStore and
// session.HolidayStore.
type Memory struct {
	mu        sync.RWMutex
	workers   map[session.WorkerID]session.Worker
	settings  map[session.WorkerID]payroll.Settings
	entries   map[session.WorkerID]map[string]payroll.DayEntry
	overrides map[session.WorkerID]calendar.Overrides
	holidays  map[string]calendar.Holiday
	snapshots map[snapshotKey]session.Snapshot
}

type snapshotKey struct {
	WorkerID session.WorkerID
	Month    calendar.Month
}

func NewMemory() *Memory {
	return &Memory{
		workers:   make(map[session.WorkerID]session.Worker),
		settings:  make(map[session.WorkerID]payroll.Settings),
		entries:   make(map[session.WorkerID]map[string]payroll.DayEntry),
		overrides: make(map[session.WorkerID]calendar.Overrides),
		holidays:  make(map[string]calendar.Holiday),
		snapshots: make(map[snapshotKey]session.Snapshot),
	}
}

// =============================================================================
// WORKERS / SETTINGS
// =============================================================================

func (m *Memory) SaveWorker(_ context.Context, w session.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.ID] = w
	return nil
}

func (m *Memory) GetWorker(_ context.Context, id session.WorkerID) (*session.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, session.ErrWorkerNotFound
	}
	return &w, nil
}

func (m *Memory) ListWorkers(_ context.Context) ([]session.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]session.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) GetSettings(_ context.Context, id session.WorkerID) (*payroll.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[id]
	if !ok {
		return nil, nil
	}
	if s.Shift != nil {
		shift := *s.Shift
		s.Shift = &shift
	}
	return &s, nil
}

func (m *Memory) SaveSettings(_ context.Context, id session.WorkerID, s payroll.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Shift != nil {
		shift := *s.Shift
		s.Shift = &shift
	}
	m.settings[id] = s
	return nil
}

// =============================================================================
// ENTRIES / OVERRIDES
// =============================================================================

func (m *Memory) LoadEntries(_ context.Context, id session.WorkerID, month calendar.Month) (map[string]payroll.DayEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]payroll.DayEntry)
	for key, e := range m.entries[id] {
		if inMonth(key, month) {
			result[key] = e
		}
	}
	return result, nil
}

func (m *Memory) SaveEntry(_ context.Context, id session.WorkerID, date calendar.Date, e payroll.DayEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[id] == nil {
		m.entries[id] = make(map[string]payroll.DayEntry)
	}
	m.entries[id][date.String()] = e
	return nil
}

func (m *Memory) DeleteEntry(_ context.Context, id session.WorkerID, date calendar.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[id], date.String())
	return nil
}

func (m *Memory) LoadOverrides(_ context.Context, id session.WorkerID, month calendar.Month) (calendar.Overrides, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := calendar.NewOverrides()
	stored := m.overrides[id]
	for key, v := range stored.Weekends {
		if inMonth(key, month) {
			result.Weekends[key] = v
		}
	}
	for key, v := range stored.Holidays {
		if inMonth(key, month) {
			result.Holidays[key] = v
		}
	}
	return result, nil
}

func (m *Memory) SaveOverride(_ context.Context, id session.WorkerID, kind calendar.OverrideKind, date calendar.Date, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.overrides[id]
	if err := o.Set(kind, date, value); err != nil {
		return err
	}
	m.overrides[id] = o
	return nil
}

func (m *Memory) DeleteOverrides(_ context.Context, id session.WorkerID, date calendar.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.overrides[id]
	o.Reset(date)
	m.overrides[id] = o
	return nil
}

func (m *Memory) DeleteAllOverrides(_ context.Context, id session.WorkerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, id)
	return nil
}

func inMonth(key string, month calendar.Month) bool {
	d, err := calendar.ParseDate(key)
	return err == nil && month.Contains(d)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) Holidays(_ context.Context, year int) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []calendar.Holiday
	for _, h := range m.holidays {
		if d, ok := h.In(year); ok {
			h.Date = d
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) SaveHoliday(_ context.Context, h calendar.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.holidays {
		if id != h.ID && existing.Name == h.Name && existing.Date.Equal(h.Date) {
			return session.ErrDuplicateHoliday
		}
	}
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return session.ErrHolidayNotFound
	}
	delete(m.holidays, id)
	return nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func (m *Memory) SaveSnapshot(_ context.Context, s session.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshotKey{WorkerID: s.WorkerID, Month: s.Month}] = s
	return nil
}

func (m *Memory) GetSnapshot(_ context.Context, id session.WorkerID, month calendar.Month) (*session.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[snapshotKey{WorkerID: id, Month: month}]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) ListSnapshots(_ context.Context, id session.WorkerID) ([]session.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []session.Snapshot
	for k, s := range m.snapshots {
		if k.WorkerID == id {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[j].Month.Before(result[i].Month) })
	return result, nil
}
