package calendar

import "errors"

var (
	// ErrInvalidDate is returned when a date or month string is not ISO formatted.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnknownOverride is returned for an override kind other than weekend/holiday.
	ErrUnknownOverride = errors.New("unknown override kind")
)
