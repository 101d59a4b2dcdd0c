package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/payroll"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg ...string) {
	t.Helper()
	label := ""
	if len(msg) > 0 {
		label = msg[0] + ": "
	}
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%swant %s, got %s", label, want, got.String())
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseTimeOfDay_Valid(t *testing.T) {
	tests := []struct {
		input  string
		hour   int
		minute int
	}{
		{"09:00", 9, 0},
		{"9:30", 9, 30},
		{"00:00", 0, 0},
		{"23:59", 23, 59},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := payroll.ParseTimeOfDay(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, got.Hour)
			assert.Equal(t, tt.minute, got.Minute)
		})
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, input := range []string{"", "9", "09:00:00", "aa:bb", "09:60", "24:00", "-1:00", "09:5x", " 9:00"} {
		t.Run(input, func(t *testing.T) {
			_, err := payroll.ParseTimeOfDay(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, payroll.ErrInvalidFormat)
			assert.True(t, payroll.IsClientError(err))

			var fe *payroll.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, input, fe.Input)
		})
	}
}

func TestParseHours_Fractional(t *testing.T) {
	h, err := payroll.ParseHours("17:30")
	require.NoError(t, err)
	assertDecimal(t, "17.5", h)
}

func TestTimeOfDay_TextRoundTrip(t *testing.T) {
	var tod payroll.TimeOfDay
	require.NoError(t, tod.UnmarshalText([]byte("7:05")))
	assert.Equal(t, "07:05", tod.String())

	assert.Error(t, tod.UnmarshalText([]byte("7h05")))
}

// =============================================================================
// SHIFT DURATION
// =============================================================================

func TestDuration(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{"standard day with lunch", "09:00", "18:00", "8"},
		{"short day keeps lunch", "09:00", "15:00", "6"},
		{"exactly seven loses lunch", "09:00", "16:00", "6"},
		{"half hours", "09:30", "17:00", "6.5"},
		{"overnight", "22:00", "06:00", "7"},
		{"same time is zero", "10:00", "10:00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.Duration(payroll.MustParseTimeOfDay(tt.start), payroll.MustParseTimeOfDay(tt.end))
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestShiftDuration_LunchBoundary(t *testing.T) {
	// GIVEN: spans of exactly 7.0h and 6.999h
	// THEN: lunch applies at >= 7 only
	zero := decimal.Zero
	assertDecimal(t, "6", payroll.ShiftDuration(zero, decimal.RequireFromString("7")))
	assertDecimal(t, "6.999", payroll.ShiftDuration(zero, decimal.RequireFromString("6.999")))
}

func TestShiftDuration_NeverNegative(t *testing.T) {
	got := payroll.ShiftDuration(decimal.RequireFromString("10"), decimal.RequireFromString("10"))
	assert.False(t, got.IsNegative())
}
