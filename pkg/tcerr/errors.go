// Package tcerr provides the typed error taxonomy shared by the SOA
// transport and the Teamcenter service facade. Every failure that crosses a
// package boundary in this repository is a *tcerr.Error.
package tcerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Code classifies an error for callers that apply per-kind recovery policy.
type Code string

// Transport-level codes.
const (
	// CodeDataValidation indicates a request failed local validation before
	// any network call was made.
	CodeDataValidation Code = "DATA_VALIDATION"

	// CodeDataParsing indicates a backend response body could not be decoded.
	CodeDataParsing Code = "DATA_PARSING"

	// CodeAPIResponse indicates the backend answered with a non-success
	// HTTP status.
	CodeAPIResponse Code = "API_RESPONSE"

	// CodeAPITimeout indicates the configured call timeout elapsed and the
	// in-flight request was cancelled.
	CodeAPITimeout Code = "API_TIMEOUT"

	// CodeAuthSession indicates the backend rejected the session (401/403).
	CodeAuthSession Code = "AUTH_SESSION"

	// CodeNetwork indicates a network-level failure (refused connection,
	// DNS, broken transport) before any HTTP status was received.
	CodeNetwork Code = "NETWORK"

	// CodeUnknown is the fallback classification.
	CodeUnknown Code = "UNKNOWN"
)

// Facade-level operation codes.
const (
	CodeNoSession          Code = "NO_SESSION"
	CodeInvalidParameter   Code = "INVALID_PARAMETER"
	CodeLoginError         Code = "LOGIN_ERROR"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeLogoutError        Code = "LOGOUT_ERROR"
	CodeSearchError        Code = "SEARCH_ERROR"
	CodeCreateError        Code = "CREATE_ERROR"
	CodeUpdateError        Code = "UPDATE_ERROR"
	CodeSessionInfoError   Code = "SESSION_INFO_ERROR"
	CodeFavoritesError     Code = "FAVORITES_ERROR"
	CodeUserPropsError     Code = "USER_PROPERTIES_ERROR"
)

// Severity grades an error for logging and client display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Error is a classified error with a machine-readable code, a severity and a
// human-readable message. It wraps its cause for errors.Is/As traversal.
// Messages and context must never contain credentials; redaction happens
// before an Error is constructed.
type Error struct {
	Code     Code
	Severity Severity
	Message  string
	Err      error
	Context  map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON serializes the error for the result envelope and for
// structured logging. The wrapped cause is flattened into the message so
// plain-Go error types do not leak their internals to clients.
func (e *Error) MarshalJSON() ([]byte, error) {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return json.Marshal(struct {
		Code     string         `json:"code"`
		Severity string         `json:"level"`
		Message  string         `json:"message"`
		Context  map[string]any `json:"context,omitempty"`
	}{
		Code:     string(e.Code),
		Severity: string(e.Severity),
		Message:  msg,
		Context:  e.Context,
	})
}

// WithContext attaches a diagnostic key-value pair and returns the error for
// chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates an Error with severity "error" and no cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Severity: SeverityError, Message: msg}
}

// Wrap creates an Error with severity "error" wrapping cause.
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Severity: SeverityError, Message: msg, Err: cause}
}

// From classifies an arbitrary error into the taxonomy. A *tcerr.Error is
// returned unchanged; context cancellation and net-level failures get their
// distinct codes; everything else is CodeUnknown.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(CodeAPITimeout, "request timed out", err)
	case errors.Is(err, context.Canceled):
		return Wrap(CodeAPITimeout, "request cancelled", err)
	case isNetworkError(err):
		return Wrap(CodeNetwork, "network failure", err)
	default:
		return Wrap(CodeUnknown, "unexpected error", err)
	}
}

// CodeOf returns the taxonomy code of err, or CodeUnknown for untyped errors.
func CodeOf(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeUnknown
}

// isNetworkError reports whether err originated below the HTTP layer.
// url.Error wraps every transport failure from net/http; timeouts are
// carved out first by From so they keep their own code.
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
