package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrRunNotFound    = fmt.Errorf("%w: run", ErrNotFound)
	ErrLabelNotFound  = fmt.Errorf("%w: row label", ErrNotFound)

	// Range errors
	ErrRowOutOfRange    = errors.New("row position out of range")
	ErrColumnOutOfRange = errors.New("column position out of range")

	// Source errors. Loading distinguishes why a dataset could not be
	// read so callers can decide between reporting, prompting for a
	// different location, or failing the run.
	ErrSourceNotFound   = errors.New("dataset source not found")
	ErrSourceUnreadable = errors.New("dataset source unreadable")
	ErrSourcePermission = errors.New("dataset source permission denied")
	ErrSourceMalformed  = errors.New("dataset source malformed")

	// Analysis errors
	ErrFrameNotReady    = errors.New("frame not loaded")
	ErrShapeMismatch    = errors.New("column length mismatch")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewColumnNotFoundError(logical string) error {
	return fmt.Errorf("%w: no header matches %q", ErrColumnNotFound, logical)
}

func NewLabelNotFoundError(label int) error {
	return fmt.Errorf("%w: %d", ErrLabelNotFound, label)
}

func NewRowRangeError(pos, nrow int) error {
	return fmt.Errorf("%w: %d (frame has %d rows)", ErrRowOutOfRange, pos, nrow)
}

func NewColumnRangeError(pos, ncol int) error {
	return fmt.Errorf("%w: %d (frame has %d columns)", ErrColumnOutOfRange, pos, ncol)
}

func NewSourceError(kind error, source string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", kind, source)
	}
	return fmt.Errorf("%w: %s: %v", kind, source, cause)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsRangeError(err error) bool {
	return errors.Is(err, ErrRowOutOfRange) || errors.Is(err, ErrColumnOutOfRange)
}

func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceNotFound) ||
		errors.Is(err, ErrSourceUnreadable) ||
		errors.Is(err, ErrSourcePermission) ||
		errors.Is(err, ErrSourceMalformed)
}
