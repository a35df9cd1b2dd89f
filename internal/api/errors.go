package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure for callers that branch on it.
type Kind int

const (
	// KindNetwork: the request never completed (dial, timeout, bad body).
	KindNetwork Kind = iota
	// KindAuth: rejected credentials or expired token.
	KindAuth
	// KindValidation: the service rejected the request payload.
	KindValidation
	// KindNotFound: stale id.
	KindNotFound
	// KindServer: any other non-2xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "server"
	}
}

// Error is returned for every failed call. Op names the operation
// ("predict", "list students"), Status is the HTTP status (0 when the
// request never completed), Message is the service's error message when
// one was returned.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.err)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.err }

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}

// IsAuth reports whether err is an auth failure (expired or rejected
// token). The TUI routes these back to the login screen.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAuth
}

// IsNotFound reports whether err is a stale-id failure.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}
