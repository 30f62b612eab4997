// Package oracle implements the eligibility verdict client. The gateway is an
// external read-only data service queried once per claim; this package only
// defines how the question is asked and how the answer is interpreted, never
// how it is computed.
package oracle

import (
	"errors"
	"fmt"
)

// ErrorCategory normalizes oracle failures for observability. Every category
// is an OracleError: the claim could not be judged, which is reported
// distinctly from a definitive negative verdict.
type ErrorCategory string

const (
	// ErrorTransport: the request never produced a response.
	ErrorTransport ErrorCategory = "transport"

	// ErrorStatus: the gateway answered with a non-success status.
	ErrorStatus ErrorCategory = "status"

	// ErrorBadData: the response body does not parse into the expected shape.
	ErrorBadData ErrorCategory = "bad_data"
)

// OracleError wraps gateway failures with a normalized category.
type OracleError struct {
	Category   ErrorCategory
	Message    string
	Underlying error
}

func (e *OracleError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("oracle [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("oracle [%s]: %s", e.Category, e.Message)
}

func (e *OracleError) Unwrap() error { return e.Underlying }

// NewOracleError creates a categorized oracle error.
func NewOracleError(category ErrorCategory, message string, underlying error) *OracleError {
	return &OracleError{Category: category, Message: message, Underlying: underlying}
}

// CategoryOf extracts the category from an error chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var oe *OracleError
	if errors.As(err, &oe) {
		return oe.Category, true
	}
	return "", false
}
