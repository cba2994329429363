package gallery

import (
	"errors"
	"net/http"
)

// Kind classifies a pipeline failure for the request layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindStorage
	KindPersistence
	KindGeneration
)

// Sentinels matched with errors.Is against any *Error of the same kind.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrStorage     = errors.New("storage error")
	ErrPersistence = errors.New("persistence error")
	ErrGeneration  = errors.New("thumbnail generation failed")
)

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown error"
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindStorage:
		return ErrStorage
	case KindPersistence:
		return ErrPersistence
	case KindGeneration:
		return ErrGeneration
	}
	return nil
}

// Error is returned by every Manager operation. Message is safe to show to
// the uploader; Err holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// StatusCode maps err onto the HTTP status the request layer should use.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the human-readable part of err, without internal causes.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error."
}
