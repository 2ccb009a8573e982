package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a backend failure for propagation policy decisions
type Kind int

// KindUnknown is reported for errors that did not come from the backend
// client (e.g. a malformed response body).
const KindUnknown Kind = -1

const (
	// KindNetwork means the request never reached the backend or timed out
	KindNetwork Kind = iota
	// KindUnauthorized is a 401/403
	KindUnauthorized
	// KindValidation is any other 4xx carrying a structured message
	KindValidation
	// KindNotFound is a 404
	KindNotFound
	// KindServer is a 5xx
	KindServer
)

// Error is a classified backend failure. Message carries the server-provided
// detail when the backend supplied one.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// classify maps an HTTP status to an error kind
func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

// IsUnauthorized reports whether err is a 401/403 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// ErrKindOf returns the classification of err
func ErrKindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// Detail returns the server-provided message for err, or the fallback when
// there is none. Used for user-facing notifications on mutating actions.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
