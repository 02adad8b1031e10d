package acl

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// EngineCheck reports a borrowed engine's readiness as a ports.HealthChecker.
// Readiness statuses go through Translate, so a failing check carries the
// engine's own error kind.
type EngineCheck struct {
	ref ports.EngineRef
}

// NewEngineCheck wraps ref for registration with a health registry.
func NewEngineCheck(ref ports.EngineRef) EngineCheck {
	return EngineCheck{ref: ref}
}

// Name implements ports.HealthChecker.
func (c EngineCheck) Name() string {
	return "engine"
}

// Check implements ports.HealthChecker.
func (c EngineCheck) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	eng, ok := c.ref.Engine()
	if !ok {
		return domain.NewUnavailableError(c.ref.String() + " is not resolvable")
	}

	ready, st := eng.IsReady()
	if err := Translate(st); err != nil {
		return fmt.Errorf("%s readiness check failed: %w", c.ref, err)
	}

	if !ready {
		return domain.NewUnavailableError(c.ref.String() + " is not ready")
	}

	return nil
}
