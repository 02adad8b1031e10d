package engine

import (
	"sync/atomic"

	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// Standalone is an always-live engine with switchable readiness. The host
// binary registers one when no real engine is attached.
type Standalone struct {
	ready atomic.Bool
}

var _ ports.Engine = (*Standalone)(nil)

// NewStandalone creates a standalone engine.
func NewStandalone(ready bool) *Standalone {
	s := &Standalone{}
	s.ready.Store(ready)

	return s
}

// IsLive implements ports.Engine.
func (s *Standalone) IsLive() (bool, ports.Status) {
	return true, nil
}

// IsReady implements ports.Engine.
func (s *Standalone) IsReady() (bool, ports.Status) {
	return s.ready.Load(), nil
}

// SetReady flips readiness.
func (s *Standalone) SetReady(ready bool) {
	s.ready.Store(ready)
}
