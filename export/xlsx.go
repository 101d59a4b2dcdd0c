/*
xlsx.go - Payroll workbook export

PURPOSE:
  Writes a formatted payroll Report as an XLSX workbook with two sheets:

    Summary   one label/value pair per line (hours, rate, amounts)
    Detail    one row per worked day, in ledger order

  Values are the rounded Report values, the same numbers the API returns.
*/
package export

import (
	"fmt"
	"io"

	"github.com/warp/shift-payroll/payroll"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	DetailSheet  = "Detail"
)

// DetailHeader is the first row of the Detail sheet.
var DetailHeader = []any{
	"Date", "Kind", "Hours", "Coefficient", "Normal h", "Overtime h",
	"Weekend h", "Total h", "Amount", "Balance after", "Compensated h", "Note",
}

// Meta names the workbook's subject. Both fields are optional.
type Meta struct {
	Worker string
	Month  string
}

// Workbook builds the workbook in memory. Callers must Close it.
func Workbook(meta Meta, report payroll.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummary(f, meta, report.Summary); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(DetailSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	if err := writeDetail(f, report.Rows); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook for report to w.
func Write(w io.Writer, meta Meta, report payroll.Report) error {
	f, err := Workbook(meta, report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, meta Meta, s payroll.SummaryView) error {
	lines := [][]any{
		{"Worker", meta.Worker},
		{"Month", meta.Month},
		{"Days worked", s.DaysWorked},
		{"Total hours", s.TotalHours},
		{"Normal hours", s.NormalHours},
		{"Overtime hours", s.OvertimeHours},
		{"Weekend hours", s.WeekendHours},
		{"Underwork hours", s.UnderworkHours},
		{"Standard daily hours", s.StandardDailyHours},
		{"Compensation balance", s.CompensationBalance},
		{"Hourly rate", s.HourlyRate},
		{"Total amount", s.TotalAmount},
		{"Bonus", s.Bonus},
		{"Final amount", s.FinalAmount},
	}
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &line); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func writeDetail(f *excelize.File, rows []payroll.RowView) error {
	if err := f.SetSheetRow(DetailSheet, "A1", &DetailHeader); err != nil {
		return fmt.Errorf("detail header: %w", err)
	}

	for i, r := range rows {
		line := []any{
			r.Date, string(r.Kind), r.Hours, r.Coefficient,
			r.NormalHours, r.OvertimeHours, r.WeekendHours, r.TotalHours,
			r.Amount, r.BalanceAfter, r.CompensatedHours, r.Note,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(DetailSheet, cell, &line); err != nil {
			return fmt.Errorf("detail row %s: %w", r.Date, err)
		}
	}

	if err := f.SetColWidth(DetailSheet, "C", "C", 26); err != nil {
		return err
	}
	return f.SetColWidth(DetailSheet, "L", "L", 32)
}
