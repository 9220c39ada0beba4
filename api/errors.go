package api

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	errNoOrder   = errors.New("response carries no order")
	errNoSession = errors.New("response carries no stream session")
)

// APIError is returned for unexpected non-success responses, typically 5xx.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tradier: %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// AuthenticationError is returned when the token is missing, invalid or expired.
type AuthenticationError struct {
	Endpoint string
	Body     string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("tradier: %s unauthorized: %s", e.Endpoint, e.Body)
}

// ValidationError is returned for malformed parameters, either rejected
// locally before sending or reported by the vendor with a 4xx.
type ValidationError struct {
	Endpoint string
	// Param names the offending parameter for locally rejected requests.
	Param      string
	Message    string
	StatusCode int
	Body       string
	// Messages holds the vendor's errors.error entries, if any.
	Messages []string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Param != "":
		return fmt.Sprintf("tradier: invalid %s: %s", e.Param, e.Message)
	case len(e.Messages) > 0:
		return fmt.Sprintf("tradier: %s rejected (%d): %s", e.Endpoint, e.StatusCode, strings.Join(e.Messages, "; "))
	default:
		return fmt.Sprintf("tradier: %s rejected (%d): %s", e.Endpoint, e.StatusCode, e.Body)
	}
}

func invalidParam(param, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Param: param, Message: fmt.Sprintf(format, args...)}
}

// TransportError wraps a network level failure.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tradier: %s transport failure: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodingError is returned for payloads that cannot be parsed or carry an
// unrecognized kind.
type DecodingError struct {
	What    string
	Payload string
	Err     error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("tradier: failed to decode %s: %v", e.What, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// NotAvailableError is returned for endpoints the sandbox does not serve.
type NotAvailableError struct {
	Endpoint string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("tradier: %s is not available in sandbox mode", e.Endpoint)
}
