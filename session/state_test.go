package session_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
)

var february = calendar.NewMonth(2026, 2)

func d(s string) calendar.Date { return calendar.MustParseDate(s) }

func coef(s string) *decimal.Decimal {
	c := decimal.RequireFromString(s)
	return &c
}

func testSettings() payroll.Settings {
	return payroll.Settings{
		Shift: &payroll.StandardShift{
			Start: payroll.MustParseTimeOfDay("09:00"),
			End:   payroll.MustParseTimeOfDay("18:00"),
		},
		BaseSalary:  decimal.NewFromInt(80000),
		WorkingDays: 20,
	}
}

func TestState_DayEditedAndCleared(t *testing.T) {
	state := session.NewState(february)

	require.NoError(t, state.Apply(session.DayEdited{Date: d("2026-02-02"), Start: "09:00", End: "18:00"}))
	assert.Contains(t, state.Entries, "2026-02-02")

	// Empty end clears the day
	require.NoError(t, state.Apply(session.DayEdited{Date: d("2026-02-02"), Start: "09:00", End: ""}))
	assert.NotContains(t, state.Entries, "2026-02-02")

	require.NoError(t, state.Apply(session.DayEdited{Date: d("2026-02-03"), Start: "09:00", End: "18:00"}))
	require.NoError(t, state.Apply(session.DayCleared{Date: d("2026-02-03")}))
	assert.Empty(t, state.Entries)
}

func TestState_RejectedEventLeavesStateUnchanged(t *testing.T) {
	state := session.NewState(february)
	require.NoError(t, state.Apply(session.DayEdited{Date: d("2026-02-07"), Start: "10:00", End: "15:00"}))

	tests := []struct {
		name string
		ev   session.Event
		want error
	}{
		{"bad start", session.DayEdited{Date: d("2026-02-07"), Start: "10-00", End: "15:00"}, payroll.ErrInvalidFormat},
		{"bad minutes", session.DayEdited{Date: d("2026-02-07"), Start: "10:00", End: "15:75"}, payroll.ErrInvalidFormat},
		{"bad coefficient", session.DayEdited{Date: d("2026-02-07"), Start: "10:00", End: "16:00", Coefficient: coef("2")}, payroll.ErrInvalidCoefficient},
		{"outside month", session.DayEdited{Date: d("2026-03-02"), Start: "10:00", End: "16:00"}, session.ErrOutsideMonth},
		{"coefficient for unlogged day", session.CoefficientSelected{Date: d("2026-02-08"), Coefficient: decimal.NewFromInt(1)}, session.ErrDayNotWorked},
		{"unknown override", session.OverrideToggled{Date: d("2026-02-07"), Kind: "vacation", Value: true}, calendar.ErrUnknownOverride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := state.Apply(tt.ev)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, session.IsClientError(err))

			assert.Len(t, state.Entries, 1)
			assert.Equal(t, "15:00", state.Entries["2026-02-07"].End.String())
			assert.False(t, state.Overrides.Has(d("2026-02-07")))
		})
	}
}

func TestState_EditKeepsSelectedCoefficient(t *testing.T) {
	state := session.NewState(february)
	saturday := d("2026-02-07")

	require.NoError(t, state.Apply(session.DayEdited{Date: saturday, Start: "10:00", End: "15:00"}))
	require.NoError(t, state.Apply(session.CoefficientSelected{Date: saturday, Coefficient: decimal.NewFromInt(1)}))
	require.NoError(t, state.Apply(session.DayEdited{Date: saturday, Start: "10:00", End: "16:00"}))

	assert.True(t, state.Entries[saturday.String()].WeekendCoefficient().Equal(decimal.NewFromInt(1)))
}

func TestState_ComputeUsesOverridesAndHolidays(t *testing.T) {
	state := session.NewState(february)
	state.Settings = testSettings()
	state.Holidays = calendar.NewHolidaySet(calendar.Official(2026))

	// Feb 23 is an official holiday on a Monday
	require.NoError(t, state.Apply(session.DayEdited{Date: d("2026-02-23"), Start: "09:00", End: "18:00"}))
	result, err := state.Compute()
	require.NoError(t, err)
	assert.Equal(t, payroll.RowWeekend, result.Rows[0].Kind)

	// Forced back to a working day
	require.NoError(t, state.Apply(session.OverrideToggled{Date: d("2026-02-23"), Kind: calendar.OverrideHoliday, Value: false}))
	result, err = state.Compute()
	require.NoError(t, err)
	assert.Equal(t, payroll.RowNormal, result.Rows[0].Kind)

	require.NoError(t, state.Apply(session.OverridesReset{Date: d("2026-02-23")}))
	result, err = state.Compute()
	require.NoError(t, err)
	assert.Equal(t, payroll.RowWeekend, result.Rows[0].Kind)
}

func TestState_DaysWithoutShift(t *testing.T) {
	state := session.NewState(february)
	require.NoError(t, state.Apply(session.DayEdited{Date: d("2026-02-02"), Start: "09:00", End: "18:00"}))
	require.NoError(t, state.Apply(session.DayEdited{Date: d("2026-02-07"), Start: "10:00", End: "15:00"}))
	require.NoError(t, state.Apply(session.OverrideToggled{Date: d("2026-02-10"), Kind: calendar.OverrideWeekend, Value: true}))

	days := state.Days()
	require.Len(t, days, 28)

	monday := days[1]
	assert.Equal(t, "2026-02-02", monday.Date)
	assert.Equal(t, "Monday", monday.Weekday)
	require.NotNil(t, monday.Entry)
	assert.False(t, monday.Entry.Resolved, "weekday needs the standard shift")
	assert.Equal(t, 8.0, monday.Entry.Hours)

	saturday := days[6]
	require.NotNil(t, saturday.Entry)
	assert.True(t, saturday.Entry.Resolved)
	assert.Equal(t, 5.0, saturday.Entry.WeekendHours)
	assert.Equal(t, 1.5, saturday.Entry.Coefficient)

	forced := days[9]
	assert.True(t, forced.Overridden)
	assert.True(t, forced.Classification.IsWeekend)
	assert.Nil(t, forced.Entry)
}
