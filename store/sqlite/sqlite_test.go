package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
	"github.com/warp/shift-payroll/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newWorker(t *testing.T, store *sqlite.Store, id string) session.WorkerID {
	t.Helper()
	w := session.Worker{ID: session.WorkerID(id), Name: "Worker " + id, CreatedAt: time.Now()}
	require.NoError(t, store.SaveWorker(context.Background(), w))
	return w.ID
}

var february = calendar.NewMonth(2026, time.February)

// =============================================================================
// WORKERS / SETTINGS
// =============================================================================

func TestStore_Workers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	newWorker(t, store, "b")
	newWorker(t, store, "a")

	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, "Worker a", workers[0].Name)

	_, err = store.GetWorker(ctx, "missing")
	assert.ErrorIs(t, err, session.ErrWorkerNotFound)
}

func TestStore_SettingsKeepDecimals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := newWorker(t, store, "w1")

	got, err := store.GetSettings(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got, "no settings yet")

	settings := payroll.Settings{
		Shift: &payroll.StandardShift{
			Start: payroll.MustParseTimeOfDay("22:00"),
			End:   payroll.MustParseTimeOfDay("06:00"),
		},
		BaseSalary:  decimal.RequireFromString("81234.56"),
		WorkingDays: 21,
		Bonus:       decimal.RequireFromString("0.01"),
	}
	require.NoError(t, store.SaveSettings(ctx, id, settings))

	got, err = store.GetSettings(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Shift)
	assert.Equal(t, "22:00-06:00", got.Shift.String())
	assert.True(t, got.BaseSalary.Equal(settings.BaseSalary))
	assert.True(t, got.Bonus.Equal(settings.Bonus))
	assert.Equal(t, 21, got.WorkingDays)

	// Shift may be unset
	settings.Shift = nil
	require.NoError(t, store.SaveSettings(ctx, id, settings))
	got, err = store.GetSettings(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.Shift)
}

// =============================================================================
// WORK DAYS / OVERRIDES
// =============================================================================

func TestStore_EntriesAreMonthScoped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := newWorker(t, store, "w1")

	one := decimal.NewFromInt(1)
	require.NoError(t, store.SaveEntry(ctx, id, calendar.MustParseDate("2026-02-01"), payroll.DayEntry{
		Start: payroll.MustParseTimeOfDay("10:00"), End: payroll.MustParseTimeOfDay("15:00"), Coefficient: &one,
	}))
	require.NoError(t, store.SaveEntry(ctx, id, calendar.MustParseDate("2026-02-28"), payroll.DayEntry{
		Start: payroll.MustParseTimeOfDay("09:00"), End: payroll.MustParseTimeOfDay("18:00"),
	}))
	require.NoError(t, store.SaveEntry(ctx, id, calendar.MustParseDate("2026-03-01"), payroll.DayEntry{
		Start: payroll.MustParseTimeOfDay("09:00"), End: payroll.MustParseTimeOfDay("18:00"),
	}))

	entries, err := store.LoadEntries(ctx, id, february)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries["2026-02-01"].Coefficient)
	assert.True(t, entries["2026-02-01"].Coefficient.Equal(one))
	assert.Nil(t, entries["2026-02-28"].Coefficient)

	// Upsert, then delete
	require.NoError(t, store.SaveEntry(ctx, id, calendar.MustParseDate("2026-02-28"), payroll.DayEntry{
		Start: payroll.MustParseTimeOfDay("08:00"), End: payroll.MustParseTimeOfDay("18:00"),
	}))
	require.NoError(t, store.DeleteEntry(ctx, id, calendar.MustParseDate("2026-02-01")))

	entries, err = store.LoadEntries(ctx, id, february)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "08:00", entries["2026-02-28"].Start.String())
}

func TestStore_Overrides(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := newWorker(t, store, "w1")
	saturday := calendar.MustParseDate("2026-02-14")

	require.NoError(t, store.SaveOverride(ctx, id, calendar.OverrideWeekend, saturday, false))
	require.NoError(t, store.SaveOverride(ctx, id, calendar.OverrideHoliday, saturday, true))
	require.NoError(t, store.SaveOverride(ctx, id, calendar.OverrideWeekend, calendar.MustParseDate("2026-03-03"), true))

	overrides, err := store.LoadOverrides(ctx, id, february)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"2026-02-14": false}, overrides.Weekends)
	assert.Equal(t, map[string]bool{"2026-02-14": true}, overrides.Holidays)

	assert.ErrorIs(t, store.SaveOverride(ctx, id, "vacation", saturday, true), calendar.ErrUnknownOverride)

	require.NoError(t, store.DeleteOverrides(ctx, id, saturday))
	overrides, err = store.LoadOverrides(ctx, id, february)
	require.NoError(t, err)
	assert.False(t, overrides.Has(saturday))

	require.NoError(t, store.DeleteAllOverrides(ctx, id))
	overrides, err = store.LoadOverrides(ctx, id, february.Next())
	require.NoError(t, err)
	assert.Empty(t, overrides.Weekends)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestStore_HolidaysRecurringAndOneOff(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHoliday(ctx, calendar.Holiday{
		ID: "h1", Date: calendar.MustParseDate("2020-02-17"), Name: "Founders Day", Recurring: true,
	}))
	require.NoError(t, store.SaveHoliday(ctx, calendar.Holiday{
		ID: "h2", Date: calendar.MustParseDate("2026-07-03"), Name: "Bridge Day",
	}))

	holidays, err := store.Holidays(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "2026-02-17", holidays[0].Date.String())
	assert.Equal(t, "2026-07-03", holidays[1].Date.String())

	holidays, err = store.Holidays(ctx, 2027)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "2027-02-17", holidays[0].Date.String())

	err = store.SaveHoliday(ctx, calendar.Holiday{ID: "h3", Date: calendar.MustParseDate("2026-07-03"), Name: "Bridge Day"})
	assert.ErrorIs(t, err, session.ErrDuplicateHoliday)

	require.NoError(t, store.DeleteHoliday(ctx, "h2"))
	assert.ErrorIs(t, store.DeleteHoliday(ctx, "h2"), session.ErrHolidayNotFound)
}

// =============================================================================
// ENGINE ON SQLITE
// =============================================================================

func TestStore_EngineRoundTrip(t *testing.T) {
	// GIVEN: An engine persisting to SQLite
	// WHEN: A month is edited, closed and edited again
	// THEN: Recomputation reads everything back; the snapshot stays frozen
	store := newTestStore(t)
	ctx := context.Background()

	engine := session.NewEngine(store, store, store)
	engine.Now = func() time.Time { return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC) }

	w, err := engine.AddWorker(ctx, "Anna")
	require.NoError(t, err)

	settings := payroll.Settings{
		Shift:       &payroll.StandardShift{Start: payroll.MustParseTimeOfDay("09:00"), End: payroll.MustParseTimeOfDay("18:00")},
		BaseSalary:  decimal.NewFromInt(80000),
		WorkingDays: 20,
		Bonus:       decimal.NewFromInt(1000),
	}
	_, err = engine.Dispatch(ctx, w.ID, february, session.SettingsChanged{Settings: settings})
	require.NoError(t, err)

	events := []session.Event{
		session.DayEdited{Date: calendar.MustParseDate("2026-02-02"), Start: "09:00", End: "16:00"},
		session.DayEdited{Date: calendar.MustParseDate("2026-02-03"), Start: "09:00", End: "20:00"},
		session.DayEdited{Date: calendar.MustParseDate("2026-02-07"), Start: "10:00", End: "15:00"},
		session.CoefficientSelected{Date: calendar.MustParseDate("2026-02-07"), Coefficient: decimal.NewFromInt(1)},
	}
	var calc *session.Calculation
	for _, ev := range events {
		calc, err = engine.Dispatch(ctx, w.ID, february, ev)
		require.NoError(t, err)
	}

	// 16h x 500 + 5h x 500 x 1.0 + bonus
	require.True(t, calc.Computed())
	assert.True(t, calc.Result.Summary.FinalAmount.Equal(decimal.NewFromInt(11500)))

	snap, err := engine.CloseMonth(ctx, w.ID, february, session.SnapshotManual)
	require.NoError(t, err)

	_, err = engine.Dispatch(ctx, w.ID, february, session.DayCleared{Date: calendar.MustParseDate("2026-02-07")})
	require.NoError(t, err)

	stored, err := store.GetSnapshot(ctx, w.ID, february)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, snap.ID, stored.ID)
	assert.True(t, stored.Summary.FinalAmount.Equal(decimal.NewFromInt(11500)))
	assert.Len(t, stored.Rows, 3)
	assert.Equal(t, payroll.RowWeekend, stored.Rows[2].Kind)

	list, err := store.ListSnapshots(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	missing, err := store.GetSnapshot(ctx, w.ID, february.Next())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := newWorker(t, store, "w1")
	require.NoError(t, store.SaveEntry(ctx, id, calendar.MustParseDate("2026-02-02"), payroll.DayEntry{}))

	require.NoError(t, store.Reset(ctx))

	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)
}
