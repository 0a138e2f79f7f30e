// Package timeerr defines the error kinds of the time-arithmetic core.
//
// Every kind is a sentinel built on github.com/cockroachdb/errors; callers
// classify failures with errors.Is and add context with errors.Wrap. All of
// them are recoverable: a failed operation never aborts a whole batch.
package timeerr

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidTimeVector indicates malformed time-vector input: a set slot
	// following an unset one, fractional parts above the last set slot, or a
	// non-finite component.
	ErrInvalidTimeVector = errors.New("invalid time vector")

	// ErrMaskedOperand indicates arithmetic touching an unset slot.
	ErrMaskedOperand = errors.New("operation on masked time element")

	// ErrAmbiguousComparison indicates that a comparison cannot be resolved,
	// either because resolutions differ with no distinguishing slot, or
	// because year/cycle/day units mix without a fixed conversion.
	ErrAmbiguousComparison = errors.New("ambiguous comparison")

	// ErrIncompatibleCalendars indicates a cross-calendar operation.
	ErrIncompatibleCalendars = errors.New("incompatible calendars")

	// ErrUnsupportedOperation indicates an operation the target calendar or
	// representation has no concept of (e.g. leap years on months_only).
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNonProgressingStep indicates a sampling step that would never
	// advance past the initial date.
	ErrNonProgressingStep = errors.New("non-progressing sampling step")

	// ErrUnknownCalendar indicates an alias with no registered calendar.
	ErrUnknownCalendar = errors.New("unknown calendar")
)

// Re-exported helpers so callers need a single import.
var (
	Is    = errors.Is
	Wrap  = errors.Wrap
	Wrapf = errors.Wrapf
	Newf  = errors.Newf
)
