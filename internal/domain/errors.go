// Package domain contains the types shared by every layer of the frontend:
// the error taxonomy, the configuration map and the restricted feature set.
// Domain errors are transport-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
)

// Kind identifies one variant of the closed error taxonomy.
// Kinds are totally ordered; the numeric value is stable.
type Kind int

const (
	KindUnknown Kind = iota
	KindInternal
	KindNotFound
	KindInvalidArgument
	KindUnavailable
	KindUnsupported
	KindAlreadyExists
)

// Kinds lists every kind in order.
var Kinds = []Kind{
	KindUnknown,
	KindInternal,
	KindNotFound,
	KindInvalidArgument,
	KindUnavailable,
	KindUnsupported,
	KindAlreadyExists,
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnavailable:
		return "unavailable"
	case KindUnsupported:
		return "unsupported"
	case KindAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= KindUnknown && k <= KindAlreadyExists
}

// Sentinel errors for use with errors.Is().
var (
	// ErrUnknown indicates a failure whose cause could not be classified.
	ErrUnknown = errors.New("unknown")

	// ErrInternal indicates a failure inside the engine or frontend.
	ErrInternal = errors.New("internal")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates the caller supplied a bad value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrUnsupported indicates the operation is not supported.
	ErrUnsupported = errors.New("unsupported")

	// ErrAlreadyExists indicates the entity or state already exists.
	ErrAlreadyExists = errors.New("already exists")
)

// KindError is implemented by every typed error in the taxonomy.
type KindError interface {
	error
	Kind() Kind
}

// UnknownError is returned for unrecognized foreign status codes.
type UnknownError struct {
	Message string
}

func (e *UnknownError) Error() string { return e.Message }

// Kind implements KindError.
func (e *UnknownError) Kind() Kind { return KindUnknown }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnknownError) Unwrap() error { return ErrUnknown }

// InternalError provides context for internal failures.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return e.Message }

// Kind implements KindError.
func (e *InternalError) Kind() Kind { return KindInternal }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *InternalError) Unwrap() error { return ErrInternal }

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// Kind implements KindError.
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidArgumentError provides context for rejected input.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// Kind implements KindError.
func (e *InvalidArgumentError) Kind() Kind { return KindInvalidArgument }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string { return e.Message }

// Kind implements KindError.
func (e *UnavailableError) Kind() Kind { return KindUnavailable }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// UnsupportedError provides context for unsupported operations.
type UnsupportedError struct {
	Message string
}

func (e *UnsupportedError) Error() string { return e.Message }

// Kind implements KindError.
func (e *UnsupportedError) Kind() Kind { return KindUnsupported }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// AlreadyExistsError provides context for duplicate state.
type AlreadyExistsError struct {
	Message string
}

func (e *AlreadyExistsError) Error() string { return e.Message }

// Kind implements KindError.
func (e *AlreadyExistsError) Kind() Kind { return KindAlreadyExists }

// Unwrap returns the sentinel error for errors.Is() support.
func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// NewError creates the typed error for kind carrying message verbatim.
// Kinds outside the taxonomy produce an UnknownError.
func NewError(kind Kind, message string) error {
	switch kind {
	case KindInternal:
		return &InternalError{Message: message}
	case KindNotFound:
		return &NotFoundError{Message: message}
	case KindInvalidArgument:
		return &InvalidArgumentError{Message: message}
	case KindUnavailable:
		return &UnavailableError{Message: message}
	case KindUnsupported:
		return &UnsupportedError{Message: message}
	case KindAlreadyExists:
		return &AlreadyExistsError{Message: message}
	default:
		return &UnknownError{Message: message}
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string) error {
	return &InternalError{Message: message}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// NewInvalidArgumentError creates an invalid argument error.
func NewInvalidArgumentError(message string) error {
	return &InvalidArgumentError{Message: message}
}

// NewUnavailableError creates an unavailable error.
func NewUnavailableError(message string) error {
	return &UnavailableError{Message: message}
}

// NewUnsupportedError creates an unsupported error.
func NewUnsupportedError(message string) error {
	return &UnsupportedError{Message: message}
}

// NewAlreadyExistsError creates an already exists error.
func NewAlreadyExistsError(message string) error {
	return &AlreadyExistsError{Message: message}
}

// KindOf returns the kind of the first KindError in err's chain.
// The second result is false when err is nil or carries no kind.
func KindOf(err error) (Kind, bool) {
	var kerr KindError
	if errors.As(err, &kerr) {
		return kerr.Kind(), true
	}

	return KindUnknown, false
}

// IsUnknown checks if an error is an unknown error.
func IsUnknown(err error) bool {
	return errors.Is(err, ErrUnknown)
}

// IsInternal checks if an error is an internal error.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument checks if an error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsUnsupported checks if an error is an unsupported error.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsAlreadyExists checks if an error is an already exists error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
