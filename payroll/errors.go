/*
errors.go - Error types for the payroll engine

ERROR CATEGORIES:
  1. Input errors   - malformed "HH:MM" strings, disallowed coefficients
  2. Config errors  - no standard shift, non-positive salary/working days

NOT COMPUTED vs ZERO:
  When configuration is invalid the engine returns an error and no Result.
  Callers must show "not computed", never zero totals.

USAGE:
  if errors.Is(err, payroll.ErrInvalidConfiguration) {
      // hide totals, ask for salary settings
  }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidFormat is returned for a time string that is not HH:MM.
	ErrInvalidFormat = errors.New("invalid time format")

	// ErrMissingStandardShift is returned when a weekday is resolved
	// before the standard shift is configured.
	ErrMissingStandardShift = errors.New("standard shift is not configured")

	// ErrInvalidConfiguration is returned by the aggregator when no summary
	// can be produced from the settings.
	ErrInvalidConfiguration = errors.New("invalid payroll configuration")

	// ErrInvalidCoefficient is returned for a weekend coefficient outside
	// WeekendCoefficients.
	ErrInvalidCoefficient = errors.New("weekend coefficient not allowed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FormatError describes a rejected time string.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time format %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrInvalidFormat }

// ConfigError names the setting that blocks computation.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid payroll configuration: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// DayError ties a resolution failure to its date.
type DayError struct {
	Date string
	Err  error
}

func (e *DayError) Error() string { return fmt.Sprintf("day %s: %v", e.Date, e.Err) }

func (e *DayError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid user input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidCoefficient) ||
		errors.Is(err, ErrMissingStandardShift)
}

// IsNotComputed returns true if the error means "no summary available".
func IsNotComputed(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
