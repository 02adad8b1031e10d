// Package app contains the application layer: the frontend adapter that
// binds a frontend service to an engine it does not own.
//
// Application Layer Responsibilities:
//   - Build the service once, through a port factory
//   - Forward lifecycle calls and translate foreign results exactly once
//   - Handle cross-cutting concerns (logging, telemetry)
//
// What does NOT belong here:
//   - Protocol servers (that's adapters)
//   - Engine lifetime (that's the engine's owner)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/acl"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/platform/telemetry"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// Lifecycle operation names used in logs and telemetry.
const (
	OpCreate = "create"
	OpStart  = "start"
	OpStop   = "stop"
)

// Frontend binds one frontend service of type S to a borrowed engine.
//
// The engine is referenced through ports.EngineRef and is never released by
// the Frontend; the service is owned exclusively and dropped by Close.
//
// StartService and StopService are pass-through: every call reaches the
// service, which alone decides whether a repeated Start or Stop fails or is
// a no-op. Frontend does no locking; the host serializes lifecycle calls.
//
// Example usage:
//
//	fe, err := app.NewFrontend(handle, cfgMap, httpfrontend.Factory(), &app.FrontendOptions{
//	    Resolver: table,
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err // typed domain error, fe is nil
//	}
//	defer fe.Close()
//	if err := fe.StartService(); err != nil { ... }
type Frontend[S ports.FrontendService] struct {
	engine    ports.EngineRef
	service   S
	closed    bool
	features  domain.RestrictedFeatures
	logger    *slog.Logger
	lifecycle *telemetry.Lifecycle
}

// FrontendOptions holds optional collaborators for NewFrontend.
type FrontendOptions struct {
	// RestrictedFeatures is handed to the factory and fixed afterwards.
	// Defaults to the empty set.
	RestrictedFeatures domain.RestrictedFeatures

	// Resolver lets the borrowed engine reference be resolved. May be nil.
	Resolver ports.EngineResolver

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Lifecycle defaults to instruments on the global OpenTelemetry providers.
	Lifecycle *telemetry.Lifecycle
}

// NewFrontend borrows the engine named by handle, builds the service through
// factory and returns the bound adapter.
//
// handle is not validated; the engine it names must outlive the Frontend.
// On failure the factory's status is translated into a typed domain error
// and no Frontend is returned.
func NewFrontend[S ports.FrontendService](
	handle ports.EngineHandle,
	cfg domain.ConfigMap,
	factory ports.ServiceFactory[S],
	opts *FrontendOptions,
) (*Frontend[S], error) {
	if opts == nil {
		opts = &FrontendOptions{}
	}

	logger := slog.Default()
	if opts.Logger != nil {
		logger = opts.Logger
	}

	lifecycle := opts.Lifecycle
	if lifecycle == nil {
		var err error

		lifecycle, err = telemetry.NewLifecycle()
		if err != nil {
			return nil, fmt.Errorf("creating lifecycle instruments: %w", err)
		}
	}

	if factory == nil {
		return nil, domain.NewInvalidArgumentError("frontend factory is nil")
	}

	ref := ports.BorrowEngine(handle, opts.Resolver)
	features := opts.RestrictedFeatures

	logger = logger.With(
		slog.String("component", "app.Frontend"),
		slog.String("engine", ref.String()),
	)

	var service S

	err := lifecycle.Observe(context.Background(), OpCreate, outcome, func() error {
		svc, st := factory.Create(ref, cfg, features)
		if err := acl.Translate(st); err != nil {
			return err
		}

		if isNil(svc) {
			return domain.NewInternalError("frontend factory returned no service")
		}

		service = svc

		return nil
	})
	if err != nil {
		logger.Error("frontend construction failed", slog.Any("error", err))
		return nil, err
	}

	logger = logger.With(slog.String("service", fmt.Sprintf("%T", service)))
	logger.Info("frontend constructed",
		slog.Int("config_keys", len(cfg)),
		slog.Int("restricted_categories", features.Len()),
	)

	return &Frontend[S]{
		engine:    ref,
		service:   service,
		features:  features,
		logger:    logger,
		lifecycle: lifecycle,
	}, nil
}

// StartService forwards to the service's Start.
func (f *Frontend[S]) StartService() error {
	return f.forward(OpStart, func() ports.Status { return f.service.Start() })
}

// StopService forwards to the service's Stop.
func (f *Frontend[S]) StopService() error {
	return f.forward(OpStop, func() ports.Status { return f.service.Stop() })
}

func (f *Frontend[S]) forward(op string, call func() ports.Status) error {
	if f.closed {
		return domain.NewUnavailableError("frontend closed")
	}

	err := f.lifecycle.Observe(context.Background(), op, outcome, func() error {
		return acl.Translate(call())
	})
	if err != nil {
		f.logger.Warn("frontend "+op+" failed", slog.Any("error", err))
		return err
	}

	f.logger.Info("frontend " + op + " succeeded")

	return nil
}

// Close drops the service, calling its Release if it has one. The engine is
// left untouched. Close is idempotent.
func (f *Frontend[S]) Close() {
	if f.closed {
		return
	}

	f.closed = true

	if r, ok := any(f.service).(ports.Releaser); ok {
		r.Release()
	}

	var zero S
	f.service = zero

	f.logger.Debug("frontend closed")
}

// Engine returns the borrowed engine reference.
func (f *Frontend[S]) Engine() ports.EngineRef {
	return f.engine
}

// RestrictedFeatures returns the feature set fixed at construction.
func (f *Frontend[S]) RestrictedFeatures() domain.RestrictedFeatures {
	return f.features
}

// Service returns the owned service. After Close it returns the zero value.
func (f *Frontend[S]) Service() S {
	return f.service
}

// outcome labels a lifecycle result for telemetry.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}

	kind, _ := domain.KindOf(err)

	return kind.String()
}

// isNil reports whether v is a nil interface or a nil pointer-like value.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
