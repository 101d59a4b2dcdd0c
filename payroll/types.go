/*
Package payroll computes a worker's monthly pay from logged shifts.

PURPOSE:
  Given the days a worker logged (start/end per date), the standard shift,
  the weekend/holiday classification of each date, a base salary and a
  contractual number of working days, produce an hours and amount
  breakdown together with a per-day ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - StandardShift: The contractual day against which overtime is measured
  - DayEntry:      Raw logged input for one date (what gets persisted)
  - DayRecord:     One resolved day: normal/overtime OR weekend hours
  - WorkedDays:    Date-keyed DayRecords; an absent key means "not worked"
  - Settings:      Salary configuration for one calculation run
  - Summary/Result: Derived output, rebuilt from scratch on every call

PAY RULES (fixed, not configurable):
  - Lunch:    1 unpaid hour is deducted from any shift of 7h or more
  - Overtime: weekday hours beyond the standard day are paid x1.3
  - Weekend:  weekend/holiday hours are paid at the day's coefficient
              (x1.0 or x1.5, default x1.5) and never count as overtime

PRECISION:
  Hours and money are decimal.Decimal. Accumulation runs at full precision;
  rounding happens only in format.go.

SEE ALSO:
  - time.go:       "HH:MM" parsing and shift duration
  - resolver.go:   DayEntry -> DayRecord
  - aggregator.go: Carry-forward compensation and totals
  - format.go:     Presentation contract
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY CONSTANTS
// =============================================================================

var (
	// LunchThreshold is the shift length from which the lunch hour is unpaid.
	LunchThreshold = decimal.NewFromInt(7)

	// LunchBreak is the unpaid lunch deduction.
	LunchBreak = decimal.NewFromInt(1)

	// NormalMultiplier applies to weekday hours up to the standard day.
	NormalMultiplier = decimal.NewFromInt(1)

	// OvertimeMultiplier applies to weekday hours beyond the standard day.
	OvertimeMultiplier = decimal.RequireFromString("1.3")

	// DefaultWeekendCoefficient is used on weekend/holiday days unless the
	// worker picked another allowed coefficient.
	DefaultWeekendCoefficient = decimal.RequireFromString("1.5")

	// WeekendCoefficients is the fixed set a worker can pick from.
	WeekendCoefficients = []decimal.Decimal{
		decimal.NewFromInt(1),
		decimal.RequireFromString("1.5"),
	}

	// BalanceEpsilon is the tolerance, in hours, under which a difference
	// or balance counts as zero for ledger notes.
	BalanceEpsilon = decimal.RequireFromString("0.01")

	hoursPerDay    = decimal.NewFromInt(24)
	minutesPerHour = decimal.NewFromInt(60)
)

// IsAllowedCoefficient reports whether c is one of WeekendCoefficients.
func IsAllowedCoefficient(c decimal.Decimal) bool {
	for _, allowed := range WeekendCoefficients {
		if allowed.Equal(c) {
			return true
		}
	}
	return false
}

// =============================================================================
// INPUT
// =============================================================================

// StandardShift defines the canonical workday. Immutable during a run.
type StandardShift struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Duration is the paid length of the standard day (lunch rule applied).
func (s StandardShift) Duration() decimal.Decimal {
	return ShiftDuration(s.Start.Hours(), s.End.Hours())
}

func (s StandardShift) String() string { return s.Start.String() + "-" + s.End.String() }

// DayEntry is what the worker logged for one date.
// Coefficient is only meaningful on weekend-rule days; nil means default.
type DayEntry struct {
	Start       TimeOfDay
	End         TimeOfDay
	Coefficient *decimal.Decimal
}

// WeekendCoefficient returns the selected coefficient or the default.
func (e DayEntry) WeekendCoefficient() decimal.Decimal {
	if e.Coefficient == nil {
		return DefaultWeekendCoefficient
	}
	return *e.Coefficient
}

// Settings is the salary configuration for one calculation run.
type Settings struct {
	Shift       *StandardShift
	BaseSalary  decimal.Decimal
	WorkingDays int
	Bonus       decimal.Decimal
}

// Validate rejects configurations under which no summary may be produced.
func (s Settings) Validate() error {
	if s.Shift == nil {
		return &ConfigError{Field: "shift", Message: "standard shift is not set"}
	}
	if !s.BaseSalary.IsPositive() {
		return &ConfigError{Field: "base_salary", Message: "base salary must be positive"}
	}
	if s.WorkingDays <= 0 {
		return &ConfigError{Field: "working_days", Message: "working days must be positive"}
	}
	if !s.Shift.Duration().IsPositive() {
		return &ConfigError{Field: "shift", Message: "standard shift has no paid hours"}
	}
	return nil
}

// HourlyRate is baseSalary / (workingDays * standardDailyHours).
// Callers must Validate first.
func (s Settings) HourlyRate() decimal.Decimal {
	denominator := decimal.NewFromInt(int64(s.WorkingDays)).Mul(s.Shift.Duration())
	return s.BaseSalary.Div(denominator)
}

// =============================================================================
// RESOLVED DAY
// =============================================================================

// DayRecord is one worked date after resolution. Either NormalHours +
// OvertimeHours or WeekendHours is in use, never both.
type DayRecord struct {
	NormalHours        decimal.Decimal
	OvertimeHours      decimal.Decimal
	WeekendHours       decimal.Decimal
	TotalHours         decimal.Decimal
	WeekendCoefficient decimal.Decimal

	// WeekendRule is set by the resolver for weekend/holiday days so that a
	// zero-hour weekend day is not mistaken for a weekday shortfall.
	WeekendRule bool
}

// IsWeekendRule reports whether the day is paid by the weekend rule.
func (r DayRecord) IsWeekendRule() bool {
	return r.WeekendRule || r.WeekendHours.IsPositive()
}

// WorkedDays maps ISO date to the resolved day.
type WorkedDays map[string]DayRecord

// =============================================================================
// OUTPUT
// =============================================================================

// Summary is a pure snapshot of one calculation run.
type Summary struct {
	TotalHours          decimal.Decimal `json:"total_hours"`
	NormalHours         decimal.Decimal `json:"normal_hours"`
	OvertimeHours       decimal.Decimal `json:"overtime_hours"`
	WeekendHours        decimal.Decimal `json:"weekend_hours"`
	UnderworkHours      decimal.Decimal `json:"underwork_hours"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Bonus               decimal.Decimal `json:"bonus"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	CompensationBalance decimal.Decimal `json:"compensation_balance"`
	StandardDailyHours  decimal.Decimal `json:"standard_daily_hours"`
	DaysWorked          int             `json:"days_worked"`
}

// Result is the aggregator output: totals plus rows in ascending date order.
type Result struct {
	Summary Summary     `json:"summary"`
	Rows    []LedgerRow `json:"rows"`
}
