// Package apperr defines the error categories shared by the harvest client.
// Fetch errors reach the user; the other kinds are logged and degraded.
package apperr

import (
	"errors"
	"fmt"
)

// Kind represents the category of error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNetwork is a transport failure (dial, DNS, reset, timeout).
	KindNetwork
	// KindServer is a non-2xx response or an undecodable body.
	KindServer
	// KindParse is a malformed stream frame or historical row. Never fatal.
	KindParse
	// KindCapabilityUnavailable marks an optional platform feature that is not configured.
	KindCapabilityUnavailable
	// KindValidation is invalid caller input.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	case KindCapabilityUnavailable:
		return "capability_unavailable"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a categorized error.
type Error struct {
	Kind       Kind
	Op         string // Operation that failed (optional)
	Message    string
	StatusCode int   // HTTP status for KindServer, 0 otherwise
	Err        error // Underlying error (optional)
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithOp sets the operation name and returns the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Network wraps a transport failure.
func Network(err error) *Error {
	return Wrap(KindNetwork, "", err)
}

// Server creates a server error carrying the HTTP status.
func Server(status int, message string) *Error {
	return &Error{Kind: KindServer, Message: message, StatusCode: status}
}

func Parse(message string, err error) *Error {
	return Wrap(KindParse, message, err)
}

func CapabilityUnavailable(capability string) *Error {
	return New(KindCapabilityUnavailable, capability+" is not available")
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the text shown under a failure title, falling back to
// a generic retry hint.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil && e.Err.Error() != "" {
			return e.Err.Error()
		}
		return "Please try again"
	}
	if s := err.Error(); s != "" {
		return s
	}
	return "Please try again"
}
