package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/payroll"
)

func TestFormat_RoundsAtBoundaryOnly(t *testing.T) {
	// GIVEN: 50000 / (21 * 8h) = 297.619047...
	settings := testSettings()
	settings.BaseSalary = decimal.NewFromInt(50000)
	settings.WorkingDays = 21

	result, err := payroll.Compute(map[string]payroll.DayEntry{
		mon: entry("09:00", "09:20"),
	}, nil, settings)
	require.NoError(t, err)

	report := payroll.Format(result)

	assert.Equal(t, 297.62, report.Summary.HourlyRate)
	assert.Equal(t, 0.3, report.Summary.TotalHours)
	assert.Equal(t, 99.21, report.Summary.TotalAmount)
	assert.Equal(t, -7.7, report.Summary.CompensationBalance)

	// Full precision survives in the Result
	assert.True(t, result.Summary.HourlyRate.GreaterThan(decimal.RequireFromString("297.619")))
	assert.True(t, result.Summary.HourlyRate.LessThan(decimal.RequireFromString("297.62")))
}

func TestFormat_Rows(t *testing.T) {
	result := compute(t, map[string]payroll.DayEntry{
		mon: entry("09:00", "16:00"),
		sat: entry("10:00", "15:00"),
	})

	report := payroll.Format(result)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, payroll.RowView{
		Date:         mon,
		Kind:         payroll.RowUnderwork,
		Hours:        "6.0 h",
		Coefficient:  "x1.0",
		NormalHours:  6,
		TotalHours:   6,
		Amount:       3000,
		BalanceAfter: -2,
		Note:         "Underwork 2.0 h",
	}, report.Rows[0])

	assert.Equal(t, "x1.5", report.Rows[1].Coefficient)
	assert.Equal(t, 3750.0, report.Rows[1].Amount)
	assert.Equal(t, 2, report.Summary.DaysWorked)
}
