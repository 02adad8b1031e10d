package ports

import (
	"fmt"
)

// EngineHandle is the address-sized value the host uses to identify an
// engine instance that lives outside this module.
type EngineHandle uintptr

// String formats the handle as a hex address.
func (h EngineHandle) String() string {
	return fmt.Sprintf("%#x", uintptr(h))
}

// Engine is the capability frontends consume from the inference engine.
type Engine interface {
	// IsLive reports whether the engine process is up.
	IsLive() (bool, Status)

	// IsReady reports whether the engine can serve requests.
	IsReady() (bool, Status)
}

// EngineResolver maps a handle back to the engine it names.
// Implementations are owned by whoever owns the engines.
type EngineResolver interface {
	Lookup(handle EngineHandle) (Engine, bool)
}

// EngineRef is a borrowed reference to an externally owned engine.
//
// It deliberately has no Release or Close method: holders of an EngineRef
// can resolve and use the engine but can never end its life. The engine
// must outlive every EngineRef pointing at it; that is the caller's
// precondition and is not checked here.
type EngineRef struct {
	handle   EngineHandle
	resolver EngineResolver
}

// BorrowEngine wraps handle without validating it. resolver may be nil, in
// which case the reference can be passed around but never resolved.
func BorrowEngine(handle EngineHandle, resolver EngineResolver) EngineRef {
	return EngineRef{handle: handle, resolver: resolver}
}

// Handle returns the raw handle.
func (r EngineRef) Handle() EngineHandle {
	return r.handle
}

// Engine resolves the reference. It returns false when no resolver was
// supplied or the owner no longer knows the handle.
func (r EngineRef) Engine() (Engine, bool) {
	if r.resolver == nil {
		return nil, false
	}

	return r.resolver.Lookup(r.handle)
}

// String formats the reference for logs.
func (r EngineRef) String() string {
	return "engine@" + r.handle.String()
}
