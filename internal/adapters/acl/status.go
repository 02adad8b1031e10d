package acl

import (
	"errors"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/engine"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// FromError converts a Go error into a foreign status. nil maps to nil;
// domain errors keep their kind and message; anything else is INTERNAL.
func FromError(err error) ports.Status {
	if err == nil {
		return nil
	}

	var kerr domain.KindError
	if errors.As(err, &kerr) {
		return engine.NewStatus(CodeForKind(kerr.Kind()), kerr.Error())
	}

	return engine.NewStatus(ports.StatusInternal, err.Error())
}
