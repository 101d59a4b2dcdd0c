package calendar_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/calendar"
)

// =============================================================================
// DEFAULT CLASSIFICATION
// =============================================================================

func TestClassifyDay_Defaults(t *testing.T) {
	holidays := calendar.NewHolidaySet(calendar.Official(2026))
	none := calendar.NewOverrides()

	tests := []struct {
		name    string
		date    string
		weekend bool
		holiday bool
	}{
		{"ordinary tuesday", "2026-02-17", false, false},
		{"saturday", "2026-02-14", true, false},
		{"sunday", "2026-02-15", true, false},
		{"holiday on monday", "2026-02-23", false, true},
		{"holiday on sunday", "2026-03-08", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := calendar.ClassifyDay(calendar.MustParseDate(tt.date), holidays, none)
			assert.Equal(t, tt.weekend, c.IsWeekend)
			assert.Equal(t, tt.holiday, c.IsHoliday)
			assert.Equal(t, tt.weekend || tt.holiday, c.WeekendRule())
		})
	}
}

func TestClassifyDay_NilInputsUseDefaults(t *testing.T) {
	c := calendar.ClassifyDay(calendar.MustParseDate("2026-02-14"), nil, calendar.Overrides{})
	assert.True(t, c.IsWeekend)
	assert.False(t, c.IsHoliday)
}

// =============================================================================
// OVERRIDE PRECEDENCE
// =============================================================================

func TestClassifyDay_SaturdayForcedWorking(t *testing.T) {
	// GIVEN: Saturday with weekends[date] = false
	// THEN: Non-weekend despite the day of week
	saturday := calendar.MustParseDate("2026-02-14")
	overrides := calendar.NewOverrides()
	require.NoError(t, overrides.Set(calendar.OverrideWeekend, saturday, false))

	c := calendar.ClassifyDay(saturday, nil, overrides)
	assert.False(t, c.IsWeekend)
	assert.False(t, c.WeekendRule())
}

func TestClassifyDay_TuesdayForcedHoliday(t *testing.T) {
	tuesday := calendar.MustParseDate("2026-02-17")
	overrides := calendar.NewOverrides()
	require.NoError(t, overrides.Set(calendar.OverrideHoliday, tuesday, true))

	c := calendar.ClassifyDay(tuesday, nil, overrides)
	assert.True(t, c.IsHoliday)
	assert.False(t, c.IsWeekend)
	assert.True(t, c.WeekendRule())
}

func TestClassifyDay_OverridesAreIndependent(t *testing.T) {
	// GIVEN: An official holiday on a Monday, weekend forced true, holiday untouched
	// THEN: Holiday flag still comes from the list
	defender := calendar.MustParseDate("2026-02-23")
	overrides := calendar.NewOverrides()
	require.NoError(t, overrides.Set(calendar.OverrideWeekend, defender, true))

	c := calendar.ClassifyDay(defender, calendar.NewHolidaySet(calendar.Official(2026)), overrides)
	assert.True(t, c.IsWeekend)
	assert.True(t, c.IsHoliday)
}

func TestClassifyDay_HolidayForcedOff(t *testing.T) {
	womensDay := calendar.MustParseDate("2027-03-08") // Monday
	overrides := calendar.NewOverrides()
	require.NoError(t, overrides.Set(calendar.OverrideHoliday, womensDay, false))

	c := calendar.ClassifyDay(womensDay, calendar.NewHolidaySet(calendar.Official(2027)), overrides)
	assert.False(t, c.IsHoliday)
	assert.False(t, c.WeekendRule())
}

func TestOverrides_ResetAndHas(t *testing.T) {
	d := calendar.MustParseDate("2026-02-17")
	overrides := calendar.NewOverrides()
	assert.False(t, overrides.Has(d))

	require.NoError(t, overrides.Set(calendar.OverrideHoliday, d, false))
	assert.True(t, overrides.Has(d), "presence of a false value still marks the date")

	overrides.Reset(d)
	assert.False(t, overrides.Has(d))

	require.NoError(t, overrides.Set(calendar.OverrideWeekend, d, true))
	overrides.ResetAll()
	assert.False(t, overrides.Has(d))
}

func TestOverrides_UnknownKind(t *testing.T) {
	overrides := calendar.NewOverrides()
	err := overrides.Set("vacation", calendar.MustParseDate("2026-02-17"), true)
	assert.ErrorIs(t, err, calendar.ErrUnknownOverride)

	_, err = calendar.ParseOverrideKind("vacation")
	assert.ErrorIs(t, err, calendar.ErrUnknownOverride)
}

func TestOverrides_CloneIsIndependent(t *testing.T) {
	d := calendar.MustParseDate("2026-02-17")
	original := calendar.NewOverrides()
	require.NoError(t, original.Set(calendar.OverrideWeekend, d, true))

	clone := original.Clone()
	clone.Reset(d)

	assert.True(t, original.Has(d))
	assert.False(t, clone.Has(d))
}

// =============================================================================
// MONTH / HOLIDAYS
// =============================================================================

func TestClassifyMonth_CoversEveryDay(t *testing.T) {
	feb := calendar.NewMonth(2026, time.February)
	classes := calendar.ClassifyMonth(feb, nil, calendar.NewOverrides())

	assert.Len(t, classes, 28)
	assert.True(t, classes["2026-02-01"].IsWeekend)
	assert.False(t, classes["2026-02-02"].IsWeekend)
}

func TestMonth_Navigation(t *testing.T) {
	m, err := calendar.ParseMonth("2024-02")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-29", m.End().String())
	assert.Len(t, m.Days(), 29)
	assert.Equal(t, "2024-01", m.Previous().String())
	assert.Equal(t, "2024-03", m.Next().String())
	assert.Equal(t, "2023-12", calendar.NewMonth(2024, time.January).Previous().String())
	assert.True(t, m.Contains(calendar.MustParseDate("2024-02-29")))
	assert.False(t, m.Contains(calendar.MustParseDate("2024-03-01")))

	_, err = calendar.ParseMonth("2024/02")
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := calendar.ParseDate("17.02.2026")
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestOfficial_FixedList(t *testing.T) {
	holidays := calendar.Official(2026)
	require.Len(t, holidays, 14)
	assert.Equal(t, "2026-01-01", holidays[0].Date.String())
	assert.Equal(t, "2026-11-04", holidays[len(holidays)-1].Date.String())

	set := calendar.NewHolidaySet(holidays)
	assert.True(t, set.Contains(calendar.MustParseDate("2026-05-09")))
	assert.False(t, set.Contains(calendar.MustParseDate("2026-12-31")))
}

type staticCalendar []calendar.Holiday

func (s staticCalendar) Holidays(_ context.Context, _ int) ([]calendar.Holiday, error) {
	return s, nil
}

func TestMerged_DeduplicatesAndSorts(t *testing.T) {
	custom := staticCalendar{
		{ID: "c1", Date: calendar.MustParseDate("2026-12-31"), Name: "Company Day"},
		{ID: "c2", Date: calendar.MustParseDate("2026-01-01"), Name: "Duplicate"},
	}
	merged := calendar.Merged{calendar.OfficialCalendar{}, custom, nil}

	holidays, err := merged.Holidays(context.Background(), 2026)
	require.NoError(t, err)

	assert.Len(t, holidays, 15)
	assert.Equal(t, "2026-12-31", holidays[len(holidays)-1].Date.String())
	assert.Equal(t, "New Year Holidays", holidays[0].Name, "first calendar wins on duplicates")
}
