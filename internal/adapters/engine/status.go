// Package engine is the owner-side half of the engine boundary: the table
// that hands out engine handles, the concrete foreign status type, and a
// standalone engine for running frontends without a real backend.
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// Status is the concrete foreign status result.
type Status struct {
	code     ports.StatusCode
	message  string
	released atomic.Int32
}

var _ ports.Status = (*Status)(nil)

// NewStatus creates a status with the given code and message.
func NewStatus(code ports.StatusCode, message string) *Status {
	return &Status{code: code, message: message}
}

// Statusf creates a status with a formatted message.
func Statusf(code ports.StatusCode, format string, args ...any) *Status {
	return NewStatus(code, fmt.Sprintf(format, args...))
}

// Code implements ports.Status.
func (s *Status) Code() ports.StatusCode {
	return s.code
}

// Message implements ports.Status.
func (s *Status) Message() string {
	return s.message
}

// Release implements ports.Status. Extra calls are harmless but counted,
// so tests can detect a double release.
func (s *Status) Release() {
	s.released.Add(1)
}

// Released reports whether Release has been called.
func (s *Status) Released() bool {
	return s.released.Load() > 0
}

// ReleaseCount returns how many times Release was called.
func (s *Status) ReleaseCount() int {
	return int(s.released.Load())
}

// Error lets a Status be logged or wrapped before it is translated.
func (s *Status) Error() string {
	return fmt.Sprintf("%s: %s", s.code, s.message)
}
