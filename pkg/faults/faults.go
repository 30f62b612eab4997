// Package faults defines the coded domain errors surfaced by the claim and
// settlement paths. Infrastructure layers return pkg/platform/sentinel errors;
// services wrap them into a Fault with a stable code that transports can map
// to a response without inspecting internals.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable fault identifier.
type Code string

const (
	// CodeInvalidSignature: signature malformed or address recovery failed.
	CodeInvalidSignature Code = "invalid_signature"

	// CodeIneligible: the oracle returned a definitive negative verdict.
	CodeIneligible Code = "ineligible"

	// CodeOracleUnavailable: transport failure, non-success status, or an
	// unparseable oracle response. Distinct from CodeIneligible: the claim was
	// not judged, it could not be judged.
	CodeOracleUnavailable Code = "oracle_unavailable"

	// CodeAlreadyPaid: settlement rejected because the claimant id is already
	// recorded in the dedup ledger.
	CodeAlreadyPaid Code = "already_paid"

	// CodeTransferFailed: the treasury transfer capability reported failure.
	CodeTransferFailed Code = "transfer_failed"

	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"
)

// Fault is a coded error. Message is safe to log; transports decide per code
// whether it is safe to return to callers.
type Fault struct {
	Code    Code
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Fault) Unwrap() error { return f.Err }

// New creates a Fault with no underlying cause.
func New(code Code, message string) *Fault {
	return &Fault{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Fault {
	return &Fault{Code: code, Message: message, Err: err}
}

// CodeOf extracts the fault code from an error chain, defaulting to
// CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	return CodeInternal
}

// Is reports whether the error chain carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// ToHTTPStatus maps fault codes to HTTP status codes.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidSignature:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeIneligible:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyPaid:
		return http.StatusConflict
	case CodeOracleUnavailable:
		return http.StatusBadGateway
	case CodeTransferFailed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
