package apiclient

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed classification of everything that can go wrong
// past the client-side validation boundary. Upstream code switches on it
// instead of inspecting raw status codes or response shapes.
type ErrorKind string

const (
	KindBadRequest    ErrorKind = "bad_request"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindServer        ErrorKind = "server"
	KindTransport     ErrorKind = "transport"
)

// APIError is a failed request, classified at the gateway boundary.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func classifyStatus(status int, message string) *APIError {
	kind := KindServer
	switch {
	case status == 401 || status == 403:
		kind = KindAuthorization
	case status == 404:
		kind = KindNotFound
	case status == 409:
		kind = KindConflict
	case status >= 400 && status < 500:
		kind = KindBadRequest
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Kind: kind, StatusCode: status, Message: message}
}

func transportError(err error) *APIError {
	return &APIError{Kind: KindTransport, Message: err.Error(), cause: err}
}

// IsNotFound reports whether err is a classified 404.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsConflict reports whether err is a classified 409, i.e. the server
// rejected the operation because of a current-state mismatch.
func IsConflict(err error) bool {
	return kindOf(err) == KindConflict
}

// IsAuthorization reports whether err is a classified 401/403.
func IsAuthorization(err error) bool {
	return kindOf(err) == KindAuthorization
}

func kindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
