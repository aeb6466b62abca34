package models

import "fmt"

// ErrorKind tells callers what went wrong without inspecting messages.
type ErrorKind uint8

const (
	KindValidation ErrorKind = iota + 1
	KindAlreadyExists
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the domain error returned by validation and the repository.
type Error struct {
	Kind ErrorKind
	ID   string
	Msg  string
}

var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrNotFound      = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}

	return e.Kind.String()
}

// Is matches any error of the same kind, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// AlreadyExists builds the error returned when an id is taken.
func AlreadyExists(id string) error {
	return &Error{Kind: KindAlreadyExists, ID: id, Msg: fmt.Sprintf("employee with id %s already exists", id)}
}

// NotFound builds the error returned when an id is unknown.
func NotFound(id string) error {
	return &Error{Kind: KindNotFound, ID: id, Msg: fmt.Sprintf("employee with id %s not found", id)}
}

// Invalid wraps a validation message.
func Invalid(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}
