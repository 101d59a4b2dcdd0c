package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// REPORT - Presentation contract
// =============================================================================
//
// Currency is rounded to 2 decimal places, hours and coefficients to 1.
// Rounding happens on copies; the Result keeps full precision.

const (
	moneyPlaces = 2
	hourPlaces  = 1
)

type Report struct {
	Summary SummaryView `json:"summary"`
	Rows    []RowView   `json:"rows"`
}

type SummaryView struct {
	TotalHours          float64 `json:"total_hours"`
	NormalHours         float64 `json:"normal_hours"`
	OvertimeHours       float64 `json:"overtime_hours"`
	WeekendHours        float64 `json:"weekend_hours"`
	UnderworkHours      float64 `json:"underwork_hours"`
	StandardDailyHours  float64 `json:"standard_daily_hours"`
	CompensationBalance float64 `json:"compensation_balance"`
	HourlyRate          float64 `json:"hourly_rate"`
	TotalAmount         float64 `json:"total_amount"`
	Bonus               float64 `json:"bonus"`
	FinalAmount         float64 `json:"final_amount"`
	DaysWorked          int     `json:"days_worked"`
}

type RowView struct {
	Date             string  `json:"date"`
	Kind             RowKind `json:"kind"`
	Hours            string  `json:"hours"`
	Coefficient      string  `json:"coefficient"`
	NormalHours      float64 `json:"normal_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	WeekendHours     float64 `json:"weekend_hours"`
	TotalHours       float64 `json:"total_hours"`
	Amount           float64 `json:"amount"`
	BalanceAfter     float64 `json:"balance_after"`
	CompensatedHours float64 `json:"compensated_hours"`
	Note             string  `json:"note"`
}

// Format shapes a Result for display.
func Format(r Result) Report {
	s := r.Summary
	report := Report{
		Summary: SummaryView{
			TotalHours:          hours(s.TotalHours),
			NormalHours:         hours(s.NormalHours),
			OvertimeHours:       hours(s.OvertimeHours),
			WeekendHours:        hours(s.WeekendHours),
			UnderworkHours:      hours(s.UnderworkHours),
			StandardDailyHours:  hours(s.StandardDailyHours),
			CompensationBalance: hours(s.CompensationBalance),
			HourlyRate:          money(s.HourlyRate),
			TotalAmount:         money(s.TotalAmount),
			Bonus:               money(s.Bonus),
			FinalAmount:         money(s.FinalAmount),
			DaysWorked:          s.DaysWorked,
		},
		Rows: make([]RowView, 0, len(r.Rows)),
	}

	for _, row := range r.Rows {
		report.Rows = append(report.Rows, RowView{
			Date:             row.Date,
			Kind:             row.Kind,
			Hours:            row.HoursDescription,
			Coefficient:      row.CoefficientDescription,
			NormalHours:      hours(row.NormalHours),
			OvertimeHours:    hours(row.OvertimeHours),
			WeekendHours:     hours(row.WeekendHours),
			TotalHours:       hours(row.TotalHours),
			Amount:           money(row.Amount),
			BalanceAfter:     hours(row.BalanceAfter),
			CompensatedHours: hours(row.CompensatedHours),
			Note:             row.Note,
		})
	}
	return report
}

func money(d decimal.Decimal) float64 { return d.Round(moneyPlaces).InexactFloat64() }

func hours(d decimal.Decimal) float64 { return d.Round(hourPlaces).InexactFloat64() }
