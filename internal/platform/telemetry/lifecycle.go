package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Lifecycle instruments frontend construction and start/stop calls.
// The zero value is not usable; use NewLifecycle.
type Lifecycle struct {
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewLifecycle creates lifecycle instruments from the global providers.
// With telemetry disabled the globals are no-ops and so are these.
func NewLifecycle() (*Lifecycle, error) {
	return newLifecycle(otel.Tracer(instrumentationName), otel.Meter(instrumentationName))
}

func newLifecycle(tracer trace.Tracer, meter metric.Meter) (*Lifecycle, error) {
	calls, err := meter.Int64Counter(
		"frontend.lifecycle.calls",
		metric.WithDescription("Frontend lifecycle calls by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"frontend.lifecycle.duration",
		metric.WithDescription("Frontend lifecycle call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Lifecycle{
		tracer:   tracer,
		calls:    calls,
		duration: duration,
	}, nil
}

// Observe runs fn inside a span named "frontend.<operation>" and records the
// outcome. outcome maps fn's error to a label; it receives nil on success.
func (l *Lifecycle) Observe(
	ctx context.Context,
	operation string,
	outcome func(error) string,
	fn func() error,
) error {
	ctx, span := l.tracer.Start(ctx, "frontend."+operation)
	defer span.End()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Seconds()

	label := outcome(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", label),
	)
	l.calls.Add(ctx, 1, attrs)
	l.duration.Record(ctx, elapsed, attrs)

	return err
}
