package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/warp/shift-payroll/calendar"
)

// =============================================================================
// CUSTOM HOLIDAYS
// =============================================================================
//
// Official holidays are fixed. Custom ones are added on top and apply to
// every worker; overrides stay per worker.

// ListHolidays returns official and custom holidays of year in date order.
func (e *Engine) ListHolidays(ctx context.Context, year int) ([]calendar.Holiday, error) {
	return e.Holidays.Holidays(ctx, year)
}

func (e *Engine) AddHoliday(ctx context.Context, date calendar.Date, name string, recurring bool) (*calendar.Holiday, error) {
	name = strings.TrimSpace(name)
	if date.IsZero() || name == "" {
		return nil, ErrInvalidHoliday
	}
	if e.Custom == nil {
		return nil, fmt.Errorf("custom holidays are not configured")
	}

	h := calendar.Holiday{ID: uuid.NewString(), Date: date, Name: name, Recurring: recurring}
	if err := e.Custom.SaveHoliday(ctx, h); err != nil {
		return nil, fmt.Errorf("save holiday: %w", err)
	}
	return &h, nil
}

func (e *Engine) DeleteHoliday(ctx context.Context, id string) error {
	if e.Custom == nil {
		return ErrHolidayNotFound
	}
	return e.Custom.DeleteHoliday(ctx, id)
}
