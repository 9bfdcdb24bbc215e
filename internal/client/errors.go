package client

import (
	"errors"
	"fmt"
)

// Kind classifies why a call failed.
type Kind int

const (
	// KindNetwork: the request never produced a response.
	KindNetwork Kind = iota + 1
	// KindStatus: the backend answered with a non-2xx status.
	KindStatus
	// KindDecode: the response body was not the expected JSON.
	KindDecode
	// KindInvalid: the request could not be built.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

// Error is returned by every Client call that fails.
type Error struct {
	Kind   Kind
	Method string
	Path   string
	// Status is the HTTP status for KindStatus, zero otherwise.
	Status int
	// Message is the backend's error text when it sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("Erro %d", e.Status)
	case KindNetwork:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) && ce.Kind == KindStatus {
		return ce.Status
	}
	return 0
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool { return StatusCode(err) == 404 }
