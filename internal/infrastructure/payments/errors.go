package payments

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure taxonomy for gateway calls. Public operations never let these escape;
// they fold them into the ErrorMessage of their result and log the detail.

// AuthError means no bearer token could be obtained. Nothing downstream is
// usable without one.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("paymob authentication failed: %v", e.Cause)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// RequestError is a non-2xx gateway response. Body carries the raw response
// for operator diagnosis; it is logged, never returned to end users verbatim.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("gateway request failed: status=%d body=%s", e.StatusCode, e.Body)
}

// ParseError is a 2xx response whose body matched none of the known shapes for
// the field we needed.
type ParseError struct {
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gateway response has no recognizable %s field", e.Field)
}

// TransportError is a network-level failure: connection, timeout, cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// isRetryable reports whether a single retry is worth attempting: transient
// 5xx answers and transport failures only. 4xx answers are deterministic.
func isRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode >= http.StatusInternalServerError
	}
	return false
}

func isUnauthorized(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == http.StatusUnauthorized
}
