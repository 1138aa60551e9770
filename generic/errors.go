/*
errors.go - Centralized error types

PURPOSE:
  All error types in one place for consistency and discoverability.
  The payroll calculations never return errors (they degrade to zero);
  these errors belong to the stores, the lifecycle operations and the API.

ERROR CATEGORIES:
  1. Not found - A referenced record doesn't exist
  2. Client errors - Malformed input or a forbidden state transition
  3. Conflicts - Duplicate identifiers

USAGE:
    if generic.IsNotFound(err) {
        // 404
    }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is the root of every "record does not exist" error.
	ErrNotFound = errors.New("not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = fmt.Errorf("employee %w", ErrNotFound)

	// ErrWorkLogNotFound is returned when a referenced work log doesn't exist.
	ErrWorkLogNotFound = fmt.Errorf("work log %w", ErrNotFound)

	// ErrLeaveRequestNotFound is returned when a leave request doesn't exist.
	ErrLeaveRequestNotFound = fmt.Errorf("leave request %w", ErrNotFound)

	// ErrRecordNotFound covers houses, revenues, expenses and holidays.
	ErrRecordNotFound = fmt.Errorf("record %w", ErrNotFound)

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidInput is returned for malformed records.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOutsideEditWindow is returned when a work log is too old to edit.
	ErrOutsideEditWindow = errors.New("outside editable window")

	// ErrDuplicateID is returned when a record with the same ID already exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrAlreadyClosed is returned when a payroll month was already closed.
	ErrAlreadyClosed = errors.New("payroll period already closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrOutsideEditWindow)
}

// IsConflict returns true if the request clashes with current state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAlreadyClosed)
}
