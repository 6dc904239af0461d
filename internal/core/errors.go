// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Series errors
	ErrSeriesInvalid  = &Error{Code: "SERIES_INVALID", Message: "price series invalid"}
	ErrSeriesNotFound = &Error{Code: "SERIES_NOT_FOUND", Message: "instrument series not found"}

	// Scoring errors (soft: absorbed into sentinel scores)
	ErrInsufficientHistory = &Error{Code: "INSUFFICIENT_HISTORY", Message: "not enough prior data for scoring window"}

	// Ledger errors
	ErrNoPriceData = &Error{Code: "NO_PRICE_DATA", Message: "no price at or before requested date"}

	// Ranking errors (soft: treated as hold-current-state)
	ErrEmptyRanking = &Error{Code: "EMPTY_RANKING", Message: "no instrument produced a usable score"}

	// Config errors (fatal, pre-run)
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
