// Package ports defines the contracts between the frontend adapter and the
// components it does not own: the inference engine, the foreign status
// results it signals failure with, and the frontend services bound to it.
//
// Port Design Principles:
//   - Foreign results cross the boundary as Status and are translated once
//   - The engine is only ever borrowed (see EngineRef)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

// StatusCode is the engine's numeric error classification.
type StatusCode int

// Status codes as numbered by the engine.
const (
	StatusUnknown StatusCode = iota
	StatusInternal
	StatusNotFound
	StatusInvalidArg
	StatusUnavailable
	StatusUnsupported
	StatusAlreadyExists
	StatusCancelled
)

// String returns the engine's name for the code.
func (c StatusCode) String() string {
	switch c {
	case StatusUnknown:
		return "UNKNOWN"
	case StatusInternal:
		return "INTERNAL"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusInvalidArg:
		return "INVALID_ARG"
	case StatusUnavailable:
		return "UNAVAILABLE"
	case StatusUnsupported:
		return "UNSUPPORTED"
	case StatusAlreadyExists:
		return "ALREADY_EXISTS"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNRECOGNIZED"
	}
}

// Status is a foreign failure result. A nil Status means success.
//
// Whoever first observes a non-nil Status owns it and must call Release
// exactly once after reading Code and Message.
type Status interface {
	Code() StatusCode
	Message() string
	Release()
}
