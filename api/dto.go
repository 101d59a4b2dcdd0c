/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Amounts and hours are
  float64 on the wire; they are converted to decimals before they reach the
  payroll engine and rounded by payroll.Format on the way out.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Workers:    WorkerDTO, CreateWorkerRequest
  Settings:   SettingsDTO (request and response)
  Days:       DayRequest
  Overrides:  OverrideRequest
  Holidays:   HolidayRequest
  Payroll:    CalculationResponse, SnapshotDTO

VALIDATION:
  Validation is done in handlers and in the session engine, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/format.go: Report, the payroll response body
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
)

// =============================================================================
// WORKERS
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateWorkerRequest is the request to create a worker.
type CreateWorkerRequest struct {
	Name string `json:"name"`
}

func toWorkerDTO(w session.Worker) WorkerDTO {
	dto := WorkerDTO{ID: string(w.ID), Name: w.Name}
	if !w.CreatedAt.IsZero() {
		dto.CreatedAt = w.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsDTO is the salary configuration of a worker. An empty shift
// means "not configured". HourlyRate is only set in responses, and only
// when the settings are complete.
type SettingsDTO struct {
	ShiftStart  string   `json:"shift_start"`
	ShiftEnd    string   `json:"shift_end"`
	BaseSalary  float64  `json:"base_salary"`
	WorkingDays int      `json:"working_days"`
	Bonus       float64  `json:"bonus"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
}

func toSettingsDTO(s payroll.Settings) SettingsDTO {
	dto := SettingsDTO{
		BaseSalary:  s.BaseSalary.InexactFloat64(),
		WorkingDays: s.WorkingDays,
		Bonus:       s.Bonus.InexactFloat64(),
	}
	if s.Shift != nil {
		dto.ShiftStart = s.Shift.Start.String()
		dto.ShiftEnd = s.Shift.End.String()
	}
	if s.Validate() == nil {
		rate := s.HourlyRate().Round(2).InexactFloat64()
		dto.HourlyRate = &rate
	}
	return dto
}

// toSettings converts a request. Either both shift bounds are set or
// neither is.
func (d SettingsDTO) toSettings() (payroll.Settings, error) {
	s := payroll.Settings{
		BaseSalary:  decimal.NewFromFloat(d.BaseSalary),
		WorkingDays: d.WorkingDays,
		Bonus:       decimal.NewFromFloat(d.Bonus),
	}
	if d.ShiftStart == "" && d.ShiftEnd == "" {
		return s, nil
	}
	start, err := payroll.ParseTimeOfDay(d.ShiftStart)
	if err != nil {
		return s, err
	}
	end, err := payroll.ParseTimeOfDay(d.ShiftEnd)
	if err != nil {
		return s, err
	}
	s.Shift = &payroll.StandardShift{Start: start, End: end}
	return s, nil
}

// =============================================================================
// DAYS / OVERRIDES
// =============================================================================

// DayRequest edits one date. With no start and end but a coefficient it
// only selects the weekend coefficient of an already logged day.
type DayRequest struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Coefficient *float64 `json:"coefficient,omitempty"`
}

// OverrideRequest forces the weekend or holiday flag of a date.
type OverrideRequest struct {
	Kind  string `json:"kind"` // "weekend" or "holiday"
	Value bool   `json:"value"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayRequest is the request to create a custom holiday.
type HolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// PAYROLL
// =============================================================================

// CalculationResponse is returned after every edit. Report is omitted when
// the month is not computed.
type CalculationResponse struct {
	Month       string          `json:"month"`
	Computed    bool            `json:"computed"`
	NotComputed string          `json:"not_computed,omitempty"`
	Report      *payroll.Report `json:"report,omitempty"`
}

func toCalculationResponse(calc *session.Calculation) CalculationResponse {
	resp := CalculationResponse{Month: calc.Month.String(), Computed: calc.Computed()}
	report, err := calc.Report()
	if err != nil {
		resp.NotComputed = err.Error()
		return resp
	}
	resp.Report = &report
	return resp
}

// SnapshotDTO is a closed month. Only the summary is listed; the rows are
// available from the stored snapshot.
type SnapshotDTO struct {
	ID      string              `json:"id"`
	Month   string              `json:"month"`
	TakenAt string              `json:"taken_at"`
	Reason  string              `json:"reason"`
	Summary payroll.SummaryView `json:"summary"`
}

func toSnapshotDTO(s session.Snapshot) SnapshotDTO {
	report := payroll.Format(payroll.Result{Summary: s.Summary})
	return SnapshotDTO{
		ID:      s.ID,
		Month:   s.Month.String(),
		TakenAt: s.TakenAt.Format(time.RFC3339),
		Reason:  string(s.Reason),
		Summary: report.Summary,
	}
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
