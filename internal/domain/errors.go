package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when the requested item does not exist.
var ErrNotFound = errors.New("not found")

// Kind classifies failures crossing the verification service boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindServiceError
	KindInvalidOrExpired
	KindExpired
	KindCodeMismatch
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindServiceError:
		return "service_error"
	case KindInvalidOrExpired:
		return "invalid_or_expired"
	case KindExpired:
		return "expired"
	case KindCodeMismatch:
		return "code_mismatch"
	default:
		return "internal"
	}
}

// Sentinels usable with errors.Is against an *Error of the matching kind.
// An expired verification also matches ErrInvalidOrExpired so callers that
// must not reveal whether an identifier exists can treat both alike.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrServiceError     = errors.New("service error")
	ErrInvalidOrExpired = errors.New("invalid or expired verification")
	ErrExpired          = errors.New("verification expired")
	ErrCodeMismatch     = errors.New("code mismatch")
	ErrInternal         = errors.New("internal error")
)

// Error is a tagged failure carrying a message and the original cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrServiceError:
		return e.Kind == KindServiceError
	case ErrInvalidOrExpired:
		return e.Kind == KindInvalidOrExpired || e.Kind == KindExpired
	case ErrExpired:
		return e.Kind == KindExpired
	case ErrCodeMismatch:
		return e.Kind == KindCodeMismatch
	case ErrInternal:
		return e.Kind == KindInternal
	}
	return false
}

// NewError builds an *Error. err may be nil.
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the Kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
