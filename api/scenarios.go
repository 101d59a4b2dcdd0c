/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with a worker
	and a logged month (February 2026) demonstrating specific payroll
	rules. Scenarios are replayed through the session engine as ordinary
	events, so they go through the same validation as user edits.

AVAILABLE SCENARIOS:

	carry-forward:        Underwork paid back by the next day's overtime
	weekend-work:         Weekend, holiday and overridden days with coefficients
	night-shift:          Standard shift crossing midnight, with overtime
	incomplete-settings:  Logged hours but no salary: "not computed"

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create the worker
 3. Dispatch SettingsChanged
 4. Dispatch the scenario's day and override events in order

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "weekend-work"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler
  - session/events.go: Event types
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioMonth is the month every scenario logs hours in.
var ScenarioMonth = calendar.NewMonth(2026, time.February)

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Month       string `json:"month"`
}

type scenario struct {
	ScenarioDTO
	worker   string
	settings payroll.Settings
	events   []session.Event
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "carry-forward",
			Name:        "Carry Forward",
			Description: "A short Monday is paid back by Tuesday's extra hours; no overtime is paid",
		},
		worker:   "Anna Carry",
		settings: dayShift(80000, 20, 0),
		events: []session.Event{
			worked("2026-02-02", "09:00", "15:00"),
			worked("2026-02-03", "09:00", "20:00"),
			worked("2026-02-04", "09:00", "18:00"),
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "weekend-work",
			Name:        "Weekend Work",
			Description: "Saturday at x1.0, Sunday and a holiday at x1.5, and a Saturday turned into a workday",
		},
		worker:   "Boris Weekend",
		settings: dayShift(80000, 20, 1000),
		events: []session.Event{
			worked("2026-02-07", "10:00", "15:00"),
			session.CoefficientSelected{Date: calendar.MustParseDate("2026-02-07"), Coefficient: decimal.NewFromInt(1)},
			worked("2026-02-08", "10:00", "16:00"),
			worked("2026-02-23", "09:00", "18:00"),
			session.OverrideToggled{Date: calendar.MustParseDate("2026-02-21"), Kind: calendar.OverrideWeekend, Value: false},
			worked("2026-02-21", "09:00", "18:00"),
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "night-shift",
			Name:        "Night Shift",
			Description: "22:00-06:00 standard shift; an extra hour on Tuesday is paid as overtime",
		},
		worker: "Vera Night",
		settings: payroll.Settings{
			Shift:       &payroll.StandardShift{Start: payroll.MustParseTimeOfDay("22:00"), End: payroll.MustParseTimeOfDay("06:00")},
			BaseSalary:  decimal.NewFromInt(70000),
			WorkingDays: 20,
		},
		events: []session.Event{
			worked("2026-02-02", "22:00", "06:00"),
			worked("2026-02-03", "22:00", "07:00"),
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "incomplete-settings",
			Name:        "Incomplete Settings",
			Description: "Hours are logged but no salary is set, so the month is not computed",
		},
		worker:   "Gleb Unset",
		settings: dayShift(0, 0, 0),
		events: []session.Event{
			worked("2026-02-02", "09:00", "18:00"),
			worked("2026-02-03", "09:00", "18:00"),
		},
	},
}

func dayShift(salary, days, bonus int64) payroll.Settings {
	return payroll.Settings{
		Shift:       &payroll.StandardShift{Start: payroll.MustParseTimeOfDay("09:00"), End: payroll.MustParseTimeOfDay("18:00")},
		BaseSalary:  decimal.NewFromInt(salary),
		WorkingDays: int(days),
		Bonus:       decimal.NewFromInt(bonus),
	}
}

func worked(date, start, end string) session.Event {
	return session.DayEdited{Date: calendar.MustParseDate(date), Start: start, End: end}
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
		dtos[i].Month = ScenarioMonth.String()
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	s, ok := findScenario(current)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	dto := s.ScenarioDTO
	dto.Month = ScenarioMonth.String()
	writeJSON(w, http.StatusOK, dto)
}

// LoadScenario resets the database and loads a scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}
	if h.DB == nil {
		writeError(w, http.StatusNotImplemented, "Scenarios need a resettable database", nil)
		return
	}

	ctx := r.Context()
	if err := h.resetDatabase(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	worker, err := h.loadScenario(ctx, s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.mu.Lock()
	h.currentScenario = s.ID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": s.ID,
		"worker":   string(worker.ID),
		"month":    ScenarioMonth.String(),
	})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeError(w, http.StatusNotImplemented, "Database cannot be reset", nil)
		return
	}
	if err := h.resetDatabase(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) resetDatabase(ctx context.Context) error {
	if err := h.DB.Reset(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	h.currentScenario = "" // Clear current scenario on reset
	h.mu.Unlock()
	return nil
}

// =============================================================================
// SCENARIO LOADER
// =============================================================================

func (h *Handler) loadScenario(ctx context.Context, s scenario) (*session.Worker, error) {
	worker, err := h.Engine.AddWorker(ctx, s.worker)
	if err != nil {
		return nil, err
	}

	if _, err := h.Engine.Dispatch(ctx, worker.ID, ScenarioMonth, session.SettingsChanged{Settings: s.settings}); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	for i, ev := range s.events {
		if _, err := h.Engine.Dispatch(ctx, worker.ID, ScenarioMonth, ev); err != nil {
			return nil, fmt.Errorf("event %d (%T): %w", i, ev, err)
		}
	}
	return worker, nil
}
