package session

import (
	"errors"

	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/payroll"
)

var (
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrSnapshotNotFound = errors.New("month has not been closed")
	ErrHolidayNotFound  = errors.New("holiday not found")

	// ErrDayNotWorked is returned when selecting a coefficient for a date
	// with no logged hours.
	ErrDayNotWorked = errors.New("day has no logged hours")

	// ErrOutsideMonth is returned for an event dated outside the month it
	// was dispatched to.
	ErrOutsideMonth = errors.New("date is outside the month")

	// ErrFutureMonth is returned when closing a month that has not started.
	ErrFutureMonth = errors.New("month has not started yet")

	ErrInvalidWorker    = errors.New("worker name is required")
	ErrInvalidHoliday   = errors.New("holiday needs a date and a name")
	ErrDuplicateHoliday = errors.New("holiday with this date and name already exists")
)

// IsNotFound returns true for lookups of missing workers, holidays or snapshots.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound) ||
		errors.Is(err, ErrSnapshotNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}

// IsClientError returns true if the error is due to invalid user input.
func IsClientError(err error) bool {
	return payroll.IsClientError(err) ||
		errors.Is(err, calendar.ErrInvalidDate) ||
		errors.Is(err, calendar.ErrUnknownOverride) ||
		errors.Is(err, ErrDayNotWorked) ||
		errors.Is(err, ErrOutsideMonth) ||
		errors.Is(err, ErrFutureMonth) ||
		errors.Is(err, ErrInvalidWorker) ||
		errors.Is(err, ErrInvalidHoliday) ||
		errors.Is(err, ErrDuplicateHoliday)
}
