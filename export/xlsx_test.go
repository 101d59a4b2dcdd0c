package export_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/export"
	"github.com/warp/shift-payroll/payroll"
	"github.com/xuri/excelize/v2"
)

func sampleReport(t *testing.T) payroll.Report {
	t.Helper()
	settings := payroll.Settings{
		Shift: &payroll.StandardShift{
			Start: payroll.MustParseTimeOfDay("09:00"),
			End:   payroll.MustParseTimeOfDay("18:00"),
		},
		BaseSalary:  decimal.NewFromInt(80000),
		WorkingDays: 20,
	}
	entries := map[string]payroll.DayEntry{
		"2026-02-02": {Start: payroll.MustParseTimeOfDay("09:00"), End: payroll.MustParseTimeOfDay("16:00")},
		"2026-02-07": {Start: payroll.MustParseTimeOfDay("10:00"), End: payroll.MustParseTimeOfDay("15:00")},
	}
	result, err := payroll.Compute(entries, nil, settings)
	require.NoError(t, err)
	return payroll.Format(result)
}

func TestWrite_SummaryAndDetailSheets(t *testing.T) {
	// GIVEN: A 7h weekday (6h paid after lunch) and a 5h Saturday
	report := sampleReport(t)

	// WHEN: The workbook is written and read back
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.Meta{Worker: "Anna", Month: "2026-02"}, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	// THEN: Both sheets carry the report values
	assert.Equal(t, []string{export.SummarySheet, export.DetailSheet}, f.GetSheetList())

	summary, err := f.GetRows(export.SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 14)
	assert.Equal(t, []string{"Worker", "Anna"}, summary[0])
	assert.Equal(t, []string{"Days worked", "2"}, summary[2])
	assert.Equal(t, []string{"Final amount", "6750"}, summary[13])

	detail, err := f.GetRows(export.DetailSheet)
	require.NoError(t, err)
	require.Len(t, detail, 3)
	assert.Equal(t, "Date", detail[0][0])
	assert.Equal(t, "2026-02-02", detail[1][0])
	assert.Equal(t, "3000", detail[1][8])
	assert.Equal(t, "weekend", detail[2][1])
	assert.Equal(t, "3750", detail[2][8])
}

func TestWrite_EmptyMonth(t *testing.T) {
	result, err := payroll.Aggregate(payroll.WorkedDays{}, payroll.Settings{
		Shift: &payroll.StandardShift{
			Start: payroll.MustParseTimeOfDay("09:00"),
			End:   payroll.MustParseTimeOfDay("18:00"),
		},
		BaseSalary:  decimal.NewFromInt(50000),
		WorkingDays: 21,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.Meta{}, payroll.Format(result)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	detail, err := f.GetRows(export.DetailSheet)
	require.NoError(t, err)
	assert.Len(t, detail, 1, "header only")
}
