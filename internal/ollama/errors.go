package ollama

import (
	"errors"
	"fmt"
)

// The gateway surfaces exactly three error kinds so callers can choose
// different user-facing messaging and fallback policies per kind.

// TimeoutError indicates the transport deadline was exceeded after all
// retry attempts.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ConnectionError indicates the backend could not be reached (refused,
// DNS failure, reset) after all retry attempts.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not reach %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// BackendError indicates the backend answered with a non-2xx status, or
// with a 2xx response that carried no usable result. It is never retried
// by the executor.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned HTTP %d: %s", e.Status, e.Detail)
}

// IsBackendStatus reports whether err is a BackendError with one of the
// given HTTP statuses.
func IsBackendStatus(err error, statuses ...int) bool {
	var be *BackendError
	if !errors.As(err, &be) {
		return false
	}
	for _, s := range statuses {
		if be.Status == s {
			return true
		}
	}
	return false
}
