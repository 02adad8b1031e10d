package http

import (
	"log/slog"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/acl"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// Factory returns a ServiceFactory building HTTP frontends. Construction
// errors are returned as statuses owned by the caller.
func Factory(logger *slog.Logger, buildInfo handlers.BuildInfo) ports.ServiceFactory[*Server] {
	return ports.FactoryFunc[*Server](func(
		engine ports.EngineRef,
		cfg domain.ConfigMap,
		features domain.RestrictedFeatures,
	) (*Server, ports.Status) {
		srv, err := NewServer(engine, cfg, features, logger, buildInfo)
		if err != nil {
			return nil, acl.FromError(err)
		}

		return srv, nil
	})
}
