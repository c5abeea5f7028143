package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindTimeout means the request exceeded its deadline.
	KindTimeout Kind = iota

	// KindConnection means the request failed before an HTTP response
	// arrived (DNS, refused connection, reset).
	KindConnection

	// KindHTTPStatus means the server answered with a status >= 400.
	KindHTTPStatus

	// KindTooLarge means the response body exceeded the configured size
	// ceiling.
	KindTooLarge
)

// String returns the kind's wire name.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindHTTPStatus:
		return "http_status"
	case KindTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// Error is a typed fetch failure.
type Error struct {
	Kind   Kind
	URL    string
	Status int // set for KindHTTPStatus
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	case KindTooLarge:
		return fmt.Sprintf("fetch %s: response body too large", e.URL)
	default:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the failure is worth retrying. Status errors
// are site-logic failures, not transient; retrying them just hammers a
// broken page.
func IsTransient(err error) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind == KindTimeout || fe.Kind == KindConnection
}
