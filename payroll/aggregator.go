/*
aggregator.go - Monthly payroll with day-to-day compensation carry-forward

PURPOSE:
  Turns a month of resolved days into totals and a per-day ledger. This is
  the only place where days influence each other.

CARRY-FORWARD ALGORITHM (weekdays only):
  balance starts at 0 for every run and is never persisted.

  for each weekday in ascending date order:
    difference = actual - standard          (+ overtime, - shortfall)
    effective  = difference + balance       (prior debt applied)

    effective <= 0:  normal = actual, overtime = 0, balance = effective
    effective  > 0:  normal = standard, overtime = effective, balance = 0

    amount = rate * normal * 1.0 + rate * overtime * 1.3

  balance is never positive: surplus beyond the debt is paid as overtime
  the same day, it is not banked.

WEEKEND ISOLATION:
  Weekend/holiday days are paid rate * hours * coefficient and do not read
  or write the balance.

ORDER:
  ISO date keys sort lexicographically in chronological order. Order is
  load-bearing: debt only flows to later dates.

EXAMPLE (standard 8h):
  Mon 6h  -> diff -2, effective -2 -> normal 6, balance -2
  Tue 10h -> diff +2, effective  0 -> normal 10, balance 0
  Paid: 16h at x1.0, no overtime.

PURITY:
  Every call recomputes from the full input. Calling twice with the same
  input yields identical Results.
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/calendar"
)

// =============================================================================
// AGGREGATE
// =============================================================================

// Aggregate computes the Result for already-resolved days.
// Returns a *ConfigError (ErrInvalidConfiguration) and no Result when the
// settings cannot produce a summary.
func Aggregate(days WorkedDays, settings Settings) (Result, error) {
	if err := settings.Validate(); err != nil {
		return Result{}, err
	}

	standard := settings.Shift.Duration()
	rate := settings.HourlyRate()

	summary := Summary{
		TotalHours:     decimal.Zero,
		NormalHours:    decimal.Zero,
		OvertimeHours:  decimal.Zero,
		WeekendHours:   decimal.Zero,
		UnderworkHours: decimal.Zero,
		TotalAmount:    decimal.Zero,
	}
	balance := decimal.Zero

	dates := sortedKeys(days)
	rows := make([]LedgerRow, 0, len(dates))

	for _, date := range dates {
		rec := days[date]

		if rec.IsWeekendRule() {
			amount := rate.Mul(rec.WeekendHours).Mul(rec.WeekendCoefficient)

			summary.WeekendHours = summary.WeekendHours.Add(rec.WeekendHours)
			summary.TotalHours = summary.TotalHours.Add(rec.TotalHours)
			summary.TotalAmount = summary.TotalAmount.Add(amount)

			rows = append(rows, weekendRow(date, rec, amount, balance))
			continue
		}

		step := weekdayStep{
			actual:        rec.TotalHours,
			difference:    rec.TotalHours.Sub(standard),
			balanceBefore: balance,
		}
		effective := step.difference.Add(balance)

		if !effective.IsPositive() {
			step.normal = step.actual
			step.overtime = decimal.Zero
			balance = effective
			if step.difference.IsNegative() {
				summary.UnderworkHours = summary.UnderworkHours.Add(step.difference.Neg())
			}
		} else {
			step.normal = standard
			step.overtime = effective
			balance = decimal.Zero
		}
		step.balanceAfter = balance

		step.amount = rate.Mul(step.normal).Mul(NormalMultiplier).
			Add(rate.Mul(step.overtime).Mul(OvertimeMultiplier))

		summary.NormalHours = summary.NormalHours.Add(step.normal)
		summary.OvertimeHours = summary.OvertimeHours.Add(step.overtime)
		summary.TotalHours = summary.TotalHours.Add(step.actual)
		summary.TotalAmount = summary.TotalAmount.Add(step.amount)

		rows = append(rows, weekdayRow(date, step))
	}

	summary.Bonus = settings.Bonus
	summary.FinalAmount = summary.TotalAmount.Add(settings.Bonus)
	summary.HourlyRate = rate
	summary.CompensationBalance = balance
	summary.StandardDailyHours = standard
	summary.DaysWorked = len(dates)

	return Result{Summary: summary, Rows: rows}, nil
}

// =============================================================================
// COMPUTE - Full input contract: raw entries + classification
// =============================================================================

// Compute validates settings, resolves every entry against its date's
// classification and aggregates. A date missing from classes is classified
// by weekday alone.
func Compute(entries map[string]DayEntry, classes map[string]calendar.Classification, settings Settings) (Result, error) {
	if err := settings.Validate(); err != nil {
		return Result{}, err
	}
	days, err := Resolve(entries, classes, settings.Shift)
	if err != nil {
		return Result{}, err
	}
	return Aggregate(days, settings)
}

// Resolve turns raw entries into WorkedDays. The first failing date (in
// date order) is returned as a *DayError.
func Resolve(entries map[string]DayEntry, classes map[string]calendar.Classification, shift *StandardShift) (WorkedDays, error) {
	days := make(WorkedDays, len(entries))
	for _, key := range sortedKeys(entries) {
		class, ok := classes[key]
		if !ok {
			date, err := calendar.ParseDate(key)
			if err != nil {
				return nil, &DayError{Date: key, Err: err}
			}
			class = calendar.ClassifyDay(date, nil, calendar.Overrides{})
		}

		rec, err := ResolveEntry(entries[key], shift, class)
		if err != nil {
			return nil, &DayError{Date: key, Err: err}
		}
		days[key] = rec
	}
	return days, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
