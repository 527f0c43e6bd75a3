// Package domainerrors defines coded errors for the service layer.
//
// Stores return sentinel errors (pkg/platform/sentinel); services translate
// them into coded errors so HTTP handlers can map codes to status lines
// without inspecting infrastructure details.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain error.
type Code string

const (
	// CodeBadRequest covers validation failures: missing or malformed input
	// the caller can correct. Never the result of I/O.
	CodeBadRequest Code = "bad_request"

	// CodeUnauthorized covers missing or invalid operator credentials.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound covers lookups for entities that do not exist.
	CodeNotFound Code = "not_found"

	// CodeUnavailable covers store or downstream outages. The triggering
	// operation may have partially completed; the message says so when it has.
	CodeUnavailable Code = "unavailable"

	// CodeDispatchFailed covers delivery-gateway transport, authorization,
	// and timeout failures. No recipients were tallied.
	CodeDispatchFailed Code = "dispatch_failed"

	// CodeInternal covers everything else. Descriptions are not exposed to
	// HTTP clients for this code.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with an operator-facing description.
type Error struct {
	Code        Code
	Description string
	cause       error
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and description.
func New(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Wrap creates a domain error that retains its cause for errors.Is/As chains.
func Wrap(code Code, description string, cause error) *Error {
	return &Error{Code: code, Description: description, cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// errors that did not originate in the service layer.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// DescriptionOf extracts the description from err, or "" for foreign errors.
func DescriptionOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Description
	}
	return ""
}
