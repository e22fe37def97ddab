// Package apperr defines the error taxonomy shared by the upload and chat
// paths and renders user-visible notices from it.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies where a failure originated.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a local rejection that never reached the network.
	KindValidation
	// KindPrecondition means required prior state was absent or an operation
	// was already in flight.
	KindPrecondition
	// KindNetwork means no response was received.
	KindNetwork
	// KindServerRejected means a response arrived reporting failure.
	KindServerRejected
	// KindStream means the streamed reply terminated abnormally after starting.
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition_failed"
	case KindNetwork:
		return "network"
	case KindServerRejected:
		return "server_rejected"
	case KindStream:
		return "stream_failure"
	default:
		return "unknown"
	}
}

// Sentinel causes. Callers compare with errors.Is.
var (
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrTooLarge          = errors.New("file too large")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrMissingCredential = errors.New("api key is required")
	ErrNoDocument        = errors.New("no document uploaded")
	ErrNoSelection       = errors.New("no file selected")
	ErrAlreadyInProgress = errors.New("operation already in progress")
)

// Error carries a Kind plus an optional server- or caller-supplied detail.
type Error struct {
	Kind   Kind
	Detail string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation wraps a local rejection cause.
func Validation(cause error, detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail, Err: cause}
}

// Precondition wraps a refused-locally cause.
func Precondition(cause error) *Error {
	return &Error{Kind: KindPrecondition, Err: cause}
}

// Network wraps a transport failure.
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// ServerRejected records a failure payload. detail may be empty when the
// server did not provide one.
func ServerRejected(status int, detail string) *Error {
	return &Error{Kind: KindServerRejected, Status: status, Detail: detail}
}

// Stream wraps an abnormal end of a streamed body.
func Stream(err error) *Error {
	return &Error{Kind: KindStream, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
