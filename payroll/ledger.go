package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER ROW - One line of the per-day detail table
// =============================================================================

type RowKind string

const (
	RowWeekend   RowKind = "weekend"
	RowNormal    RowKind = "normal"
	RowOvertime  RowKind = "overtime"
	RowUnderwork RowKind = "underwork"
)

// LedgerRow is rebuilt on every aggregation pass, one per worked date.
// Notes and descriptions are cosmetic; totals never read them.
type LedgerRow struct {
	Date          string          `json:"date"`
	Kind          RowKind         `json:"kind"`
	NormalHours   decimal.Decimal `json:"normal_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	WeekendHours  decimal.Decimal `json:"weekend_hours"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	Coefficient   decimal.Decimal `json:"coefficient"`
	Amount        decimal.Decimal `json:"amount"`

	// Carry-forward state around this day. Weekend rows leave it unchanged.
	BalanceBefore    decimal.Decimal `json:"balance_before"`
	BalanceAfter     decimal.Decimal `json:"balance_after"`
	CompensatedHours decimal.Decimal `json:"compensated_hours"`

	HoursDescription       string `json:"hours_description"`
	CoefficientDescription string `json:"coefficient_description"`
	Note                   string `json:"note"`
}

func weekendRow(date string, rec DayRecord, amount, balance decimal.Decimal) LedgerRow {
	return LedgerRow{
		Date:                   date,
		Kind:                   RowWeekend,
		WeekendHours:           rec.WeekendHours,
		TotalHours:             rec.TotalHours,
		Coefficient:            rec.WeekendCoefficient,
		Amount:                 amount,
		BalanceBefore:          balance,
		BalanceAfter:           balance,
		HoursDescription:       hoursText(rec.WeekendHours),
		CoefficientDescription: coefficientText(rec.WeekendCoefficient),
		Note:                   "Weekend",
	}
}

// weekdayStep is what the aggregator decided for one weekday.
type weekdayStep struct {
	actual, difference          decimal.Decimal
	normal, overtime            decimal.Decimal
	balanceBefore, balanceAfter decimal.Decimal
	amount                      decimal.Decimal
}

func weekdayRow(date string, s weekdayStep) LedgerRow {
	row := LedgerRow{
		Date:          date,
		NormalHours:   s.normal,
		OvertimeHours: s.overtime,
		WeekendHours:  decimal.Zero,
		TotalHours:    s.actual,
		Coefficient:   NormalMultiplier,
		Amount:        s.amount,
		BalanceBefore: s.balanceBefore,
		BalanceAfter:  s.balanceAfter,
	}

	if s.overtime.IsPositive() {
		row.HoursDescription = fmt.Sprintf("%s (%s) + %s (%s)",
			hoursText(s.normal), coefficientText(NormalMultiplier),
			hoursText(s.overtime), coefficientText(OvertimeMultiplier))
		row.CoefficientDescription = "mixed"
	} else {
		row.HoursDescription = hoursText(s.normal)
		row.CoefficientDescription = coefficientText(NormalMultiplier)
	}

	row.CompensatedHours = compensated(s)
	row.Kind, row.Note = weekdayNote(s, row.CompensatedHours)
	return row
}

// compensated is how much prior debt this day paid off.
func compensated(s weekdayStep) decimal.Decimal {
	if !s.balanceBefore.IsNegative() {
		return decimal.Zero
	}
	if s.overtime.IsPositive() {
		return s.balanceBefore.Neg()
	}
	if s.difference.IsPositive() {
		return s.difference
	}
	return decimal.Zero
}

func weekdayNote(s weekdayStep, compensatedHours decimal.Decimal) (RowKind, string) {
	debt := nonZero(s.balanceAfter)

	switch {
	case s.overtime.GreaterThan(BalanceEpsilon):
		note := "Overtime " + hoursText(s.overtime)
		if nonZero(compensatedHours) {
			note += fmt.Sprintf(" (%s compensated)", hoursText(compensatedHours))
		}
		return RowOvertime, note

	case s.difference.LessThan(BalanceEpsilon.Neg()):
		note := "Underwork " + hoursText(s.difference.Abs())
		if debt && nonZero(s.balanceBefore) {
			note += ", balance " + hoursText(s.balanceAfter)
		}
		return RowUnderwork, note

	case nonZero(compensatedHours):
		note := "Compensated " + hoursText(compensatedHours)
		if debt {
			note += ", balance " + hoursText(s.balanceAfter)
		}
		return RowNormal, note

	case debt:
		return RowNormal, "Norm, balance " + hoursText(s.balanceAfter)

	default:
		return RowNormal, "Norm"
	}
}

func nonZero(d decimal.Decimal) bool { return d.Abs().GreaterThan(BalanceEpsilon) }

func hoursText(h decimal.Decimal) string { return h.StringFixed(1) + " h" }

func coefficientText(c decimal.Decimal) string { return "x" + c.StringFixed(1) }
