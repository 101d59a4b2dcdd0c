package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/calendar"
)

// =============================================================================
// DAY HOURS RESOLVER
// =============================================================================

// ResolveDay splits one logged day into normal/overtime or weekend hours.
//
// Weekend/holiday days: every hour is a weekend hour at coefficient; there
// is no comparison with the standard day and no overtime.
//
// Weekdays: hours up to the standard duration are normal, the rest is
// overtime. A shortfall is NOT recorded here; the aggregator carries it.
func ResolveDay(start, end TimeOfDay, shift *StandardShift, class calendar.Classification, coefficient decimal.Decimal) (DayRecord, error) {
	actual := Duration(start, end)

	if class.WeekendRule() {
		if !IsAllowedCoefficient(coefficient) {
			return DayRecord{}, ErrInvalidCoefficient
		}
		return DayRecord{
			NormalHours:        decimal.Zero,
			OvertimeHours:      decimal.Zero,
			WeekendHours:       actual,
			TotalHours:         actual,
			WeekendCoefficient: coefficient,
			WeekendRule:        true,
		}, nil
	}

	if shift == nil {
		return DayRecord{}, ErrMissingStandardShift
	}
	standard := shift.Duration()

	record := DayRecord{
		WeekendHours:       decimal.Zero,
		TotalHours:         actual,
		WeekendCoefficient: NormalMultiplier,
	}
	if actual.LessThanOrEqual(standard) {
		record.NormalHours = actual
		record.OvertimeHours = decimal.Zero
	} else {
		record.NormalHours = standard
		record.OvertimeHours = actual.Sub(standard)
	}
	return record, nil
}

// ResolveEntry resolves a stored DayEntry.
func ResolveEntry(entry DayEntry, shift *StandardShift, class calendar.Classification) (DayRecord, error) {
	return ResolveDay(entry.Start, entry.End, shift, class, entry.WeekendCoefficient())
}
