// Package domainerrors defines the error taxonomy shared by services,
// stores and transport. Domain code attaches a Code close to where the
// failure is understood; the HTTP layer translates codes to statuses in
// exactly one place.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for callers and for HTTP translation.
type Code string

const (
	// CodeValidation marks malformed caller input: bad timestamps, bad
	// "HH:MM" strings, day-of-week out of range. Never silently coerced.
	CodeValidation Code = "validation"

	// CodeInvalidInput marks identifiers that fail parsing at a trust
	// boundary (empty, malformed or nil UUIDs).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks requests that are syntactically broken
	// (undecodable bodies, missing required fields).
	CodeBadRequest Code = "bad_request"

	// CodeConflict marks schedule writes rejected by the conflict
	// detector. Conflicts are surfaced, never auto-resolved.
	CodeConflict Code = "conflict"

	// CodeNotFound marks a referenced entity that does not exist. Fatal
	// on the write path; read paths degrade and log instead.
	CodeNotFound Code = "not_found"

	// CodeInvariantViolation marks state the invariants should have made
	// impossible. Logged and tie-broken, not user-facing.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeTimeout marks work abandoned because the caller's context
	// ended.
	CodeTimeout Code = "timeout"

	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal"
)

// Error carries a code, a caller-safe message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err
// returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err carries the given code anywhere in its
// chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for readability at call sites.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
