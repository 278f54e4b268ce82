// SPDX-License-Identifier: MIT

package tmdb

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound    = errors.New("tmdb: resource not found")
	ErrForbidden   = errors.New("tmdb: access forbidden")
	ErrUnavailable = errors.New("tmdb: host unreachable or transport failure")
	ErrUpstream    = errors.New("tmdb: internal error (5xx)")
	ErrBadResponse = errors.New("tmdb: invalid response format or malformed data")
	ErrTimeout     = errors.New("tmdb: request timed out")
)

// Error is a rich error type that wraps the sentinel errors with context.
type Error struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // Nested lower-level error (e.g. net.Error)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("tmdb: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Sentinel
}
