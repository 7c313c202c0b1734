package api

import "errors"

// Kind classifies a collaborator failure.
type Kind int

const (
	// KindNetwork covers transport failures and any server error that is
	// neither a missing resource nor an authorization problem.
	KindNetwork Kind = iota
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "network"
	}
}

// Error carries the collaborator's message verbatim alongside its taxonomy
// kind. The message is surfaced to callers without remapping.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds an Error carrying the given message verbatim.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapNetwork wraps a transport-level failure as a network error.
func WrapNetwork(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), cause: err}
}

func isKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func IsNotFound(err error) bool     { return isKind(err, KindNotFound) }
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }
func IsNetwork(err error) bool      { return isKind(err, KindNetwork) }
