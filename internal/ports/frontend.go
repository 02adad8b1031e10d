package ports

import (
	"github.com/jsamuelsen/inference-frontend/internal/domain"
)

// FrontendService is a protocol endpoint bound to an engine.
// Both operations return a foreign Status; nil means success.
//
// Whether repeated Start or Stop calls fail or are no-ops is decided by the
// implementation. Callers forwarding these calls must not deduplicate them.
type FrontendService interface {
	Start() Status
	Stop() Status
}

// Releaser is implemented by services holding resources that must be
// dropped when their owner goes away.
type Releaser interface {
	Release()
}

// ServiceFactory builds a frontend service of concrete type S.
//
// Create receives a borrowed engine reference, the uninterpreted
// configuration map and the restricted feature set. On failure it returns a
// non-nil Status, which the caller owns; the returned service is ignored.
type ServiceFactory[S FrontendService] interface {
	Create(engine EngineRef, cfg domain.ConfigMap, features domain.RestrictedFeatures) (S, Status)
}

// FactoryFunc adapts a plain function to ServiceFactory.
type FactoryFunc[S FrontendService] func(
	engine EngineRef,
	cfg domain.ConfigMap,
	features domain.RestrictedFeatures,
) (S, Status)

// Create implements ServiceFactory.
func (f FactoryFunc[S]) Create(
	engine EngineRef,
	cfg domain.ConfigMap,
	features domain.RestrictedFeatures,
) (S, Status) {
	return f(engine, cfg, features)
}
