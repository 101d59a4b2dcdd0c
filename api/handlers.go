/*
handlers.go - HTTP API handlers for the shift payroll engine

PURPOSE:
  Exposes the session engine via REST API. Handles HTTP request/response
  and JSON serialization; every edit is turned into a session event and
  dispatched, so the response always carries the recomputed month.

ENDPOINTS:
  Workers:
    GET    /api/workers                              List workers
    POST   /api/workers                              Create worker
    GET    /api/workers/{id}                         Get worker
    GET    /api/workers/{id}/settings                Get salary settings
    PUT    /api/workers/{id}/settings                Replace salary settings

  Months:
    GET    /api/workers/{id}/months/{month}          Calendar view + payroll
    GET    /api/workers/{id}/months/{month}/payroll  Payroll report
    GET    /api/workers/{id}/months/{month}/export   XLSX workbook
    POST   /api/workers/{id}/months/{month}/close    Freeze the month
    GET    /api/workers/{id}/snapshots               Closed months

  Days and overrides:
    PUT    /api/workers/{id}/days/{date}             Log hours / pick coefficient
    DELETE /api/workers/{id}/days/{date}             Clear a day
    PUT    /api/workers/{id}/overrides/{date}        Force weekend/holiday flag
    DELETE /api/workers/{id}/overrides/{date}        Reset one date
    DELETE /api/workers/{id}/overrides               Reset every override

  Holidays:
    GET    /api/holidays?year=                       Official + custom holidays
    POST   /api/holidays                             Add custom holiday
    DELETE /api/holidays/{id}                        Delete custom holiday

  Scenarios:
    GET    /api/scenarios                            List demo scenarios
    POST   /api/scenarios/load                       Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Worker, holiday or snapshot not found
  - 409: Duplicate holiday
  - 422: Settings cannot produce a payroll ("not computed")
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
  - session/engine.go: Event dispatch
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/export"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/session"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Resetter clears every table. The sqlite store implements it.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *session.Engine

	// DB is cleared before a demo scenario loads; nil disables scenarios.
	DB Resetter

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler around the given engine.
func NewHandler(engine *session.Engine, db Resetter) *Handler {
	return &Handler{Engine: engine, DB: db}
}

func (h *Handler) currentMonth() calendar.Month {
	now := h.Engine.Now()
	return calendar.NewMonth(now.Year(), now.Month())
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Engine.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		dtos[i] = toWorkerDTO(wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorker creates a new worker.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	worker, err := h.Engine.AddWorker(r.Context(), req.Name)
	if err != nil {
		writeEngineError(w, "Failed to create worker", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkerDTO(*worker))
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.Engine.Store.GetWorker(r.Context(), workerID(r))
	if err != nil {
		writeEngineError(w, "Failed to get worker", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(*worker))
}

// GetSettings returns the worker's salary settings (or the defaults).
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Engine.Settings(r.Context(), workerID(r))
	if err != nil {
		writeEngineError(w, "Failed to get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// UpdateSettings replaces the worker's salary settings and recomputes the
// month given by ?month= (default: current month).
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	settings, err := req.toSettings()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid standard shift", err)
		return
	}
	month, ok := h.monthQuery(w, r)
	if !ok {
		return
	}

	calc, err := h.Engine.Dispatch(r.Context(), workerID(r), month, session.SettingsChanged{Settings: settings})
	if err != nil {
		writeEngineError(w, "Failed to update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"settings": toSettingsDTO(settings),
		"payroll":  toCalculationResponse(calc),
	})
}

// =============================================================================
// MONTH HANDLERS
// =============================================================================

// GetMonth returns every day of the month with its classification and the
// month's payroll.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	view, err := h.Engine.Month(r.Context(), workerID(r), month)
	if err != nil {
		writeEngineError(w, "Failed to load month", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetPayroll returns the formatted payroll of a month.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ExportMonth streams the payroll of a month as an XLSX workbook.
func (h *Handler) ExportMonth(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	worker, err := h.Engine.Store.GetWorker(r.Context(), workerID(r))
	if err != nil {
		writeEngineError(w, "Failed to get worker", err)
		return
	}

	month := chi.URLParam(r, "month")

	// Headers go out only once the whole workbook is built.
	var buf bytes.Buffer
	if err := writeWorkbook(&buf, export.Meta{Worker: worker.Name, Month: month}, report); err != nil {
		log.Printf("[Export] Failed to build workbook for %s/%s: %v", worker.ID, month, err)
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s.xlsx"`, month))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[Export] Failed to send workbook for %s/%s: %v", worker.ID, month, err)
	}
}

// writeWorkbook is swapped in tests.
var writeWorkbook = export.Write

func (h *Handler) report(w http.ResponseWriter, r *http.Request) (payroll.Report, bool) {
	month, ok := monthParam(w, r)
	if !ok {
		return payroll.Report{}, false
	}

	calc, err := h.Engine.Calculate(r.Context(), workerID(r), month)
	if err != nil {
		writeEngineError(w, "Failed to calculate payroll", err)
		return payroll.Report{}, false
	}
	report, err := calc.Report()
	if err != nil {
		writeEngineError(w, "Payroll not computed", err)
		return payroll.Report{}, false
	}
	return report, true
}

// CloseMonth freezes the month's payroll as a snapshot.
func (h *Handler) CloseMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	snap, err := h.Engine.CloseMonth(r.Context(), workerID(r), month, session.SnapshotManual)
	if err != nil {
		writeEngineError(w, "Failed to close month", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotDTO(*snap))
}

// ListSnapshots returns the closed months of a worker, newest first.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := workerID(r)

	if _, err := h.Engine.Store.GetWorker(ctx, id); err != nil {
		writeEngineError(w, "Failed to get worker", err)
		return
	}
	snaps, err := h.Engine.Snapshots.ListSnapshots(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	dtos := make([]SnapshotDTO, len(snaps))
	for i, s := range snaps {
		dtos[i] = toSnapshotDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// DAY / OVERRIDE HANDLERS
// =============================================================================

// UpdateDay logs hours for a date, or selects the weekend coefficient of
// an already logged day when only a coefficient is sent.
func (h *Handler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	var req DayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var ev session.Event
	if req.Start == "" && req.End == "" && req.Coefficient != nil {
		ev = session.CoefficientSelected{Date: date, Coefficient: decimal.NewFromFloat(*req.Coefficient)}
	} else {
		edit := session.DayEdited{Date: date, Start: req.Start, End: req.End}
		if req.Coefficient != nil {
			c := decimal.NewFromFloat(*req.Coefficient)
			edit.Coefficient = &c
		}
		ev = edit
	}
	h.dispatch(w, r, date.MonthOf(), ev, "Failed to update day")
}

// ClearDay removes the logged hours of a date.
func (h *Handler) ClearDay(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, date.MonthOf(), session.DayCleared{Date: date}, "Failed to clear day")
}

// SetOverride forces the weekend or holiday flag of a date.
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	kind, err := calendar.ParseOverrideKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid override kind (use weekend or holiday)", err)
		return
	}

	ev := session.OverrideToggled{Date: date, Kind: kind, Value: req.Value}
	h.dispatch(w, r, date.MonthOf(), ev, "Failed to set override")
}

// ResetOverrides returns one date to its computed classification.
func (h *Handler) ResetOverrides(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, date.MonthOf(), session.OverridesReset{Date: date}, "Failed to reset overrides")
}

// ResetAllOverrides drops every override of the worker and recomputes the
// month given by ?month= (default: current month).
func (h *Handler) ResetAllOverrides(w http.ResponseWriter, r *http.Request) {
	month, ok := h.monthQuery(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, month, session.AllOverridesReset{}, "Failed to reset overrides")
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, month calendar.Month, ev session.Event, message string) {
	calc, err := h.Engine.Dispatch(r.Context(), workerID(r), month, ev)
	if err != nil {
		writeEngineError(w, message, err)
		return
	}
	writeJSON(w, http.StatusOK, toCalculationResponse(calc))
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns official and custom holidays of a year.
// GET /api/holidays?year=2026
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.Engine.Now().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		y, err := strconv.Atoi(q)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = y
	}

	holidays, err := h.Engine.ListHolidays(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}
	if holidays == nil {
		holidays = []calendar.Holiday{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "holidays": holidays})
}

// CreateHoliday adds a custom holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday, err := h.Engine.AddHoliday(r.Context(), date, req.Name, req.Recurring)
	if err != nil {
		writeEngineError(w, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, holiday)
}

// DeleteHoliday deletes a custom holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// HELPERS
// =============================================================================

func workerID(r *http.Request) session.WorkerID {
	return session.WorkerID(chi.URLParam(r, "id"))
}

func monthParam(w http.ResponseWriter, r *http.Request) (calendar.Month, bool) {
	month, err := calendar.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return calendar.Month{}, false
	}
	return month, true
}

func (h *Handler) monthQuery(w http.ResponseWriter, r *http.Request) (calendar.Month, bool) {
	q := r.URL.Query().Get("month")
	if q == "" {
		return h.currentMonth(), true
	}
	month, err := calendar.ParseMonth(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return calendar.Month{}, false
	}
	return month, true
}

func dateParam(w http.ResponseWriter, r *http.Request) (calendar.Date, bool) {
	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return calendar.Date{}, false
	}
	return date, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps session and payroll errors to HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case session.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, session.ErrDuplicateHoliday):
		writeError(w, http.StatusConflict, message, err)
	case payroll.IsNotComputed(err):
		resp := ErrorResponse{Error: message, Code: "not_computed", Details: err.Error()}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case session.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
