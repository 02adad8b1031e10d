package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/inference-frontend/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/inference-frontend/internal/platform/telemetry"

// TraceIDHeader echoes the active trace ID back to the client.
const TraceIDHeader = "X-Trace-ID"

// requestInstruments are the OTel counterparts of the frontend's Prometheus
// request metrics, exported over OTLP when telemetry is enabled.
type requestInstruments struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

func newRequestInstruments(meter metric.Meter) (*requestInstruments, error) {
	duration, err := meter.Float64Histogram("frontend.http.request.duration",
		metric.WithDescription("HTTP frontend request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter("frontend.http.request.total",
		metric.WithDescription("HTTP frontend requests served"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter("frontend.http.request.active",
		metric.WithDescription("HTTP frontend requests in progress"),
	)
	if err != nil {
		return nil, err
	}

	return &requestInstruments{duration: duration, total: total, active: active}, nil
}

// Middleware records OTel request metrics, sets TraceIDHeader and adds
// trace_id to the request logger. Install it after TracingMiddleware so the
// span exists before the handler writes. Instruments are created from the
// global meter provider when Middleware is called.
func Middleware() gin.HandlerFunc {
	return middleware(otel.Meter(instrumentationName))
}

func middleware(meter metric.Meter) gin.HandlerFunc {
	inst, err := newRequestInstruments(meter)
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		}

		if inst != nil {
			inst.active.Add(ctx, 1, metric.WithAttributes(base...))
			defer inst.active.Add(ctx, -1, metric.WithAttributes(base...))
		}

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			id := sc.TraceID().String()
			c.Header(TraceIDHeader, id)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, id))
		}

		c.Next()

		if inst == nil {
			return
		}

		attrs := metric.WithAttributes(append(base,
			attribute.String("http.status_code", strconv.Itoa(c.Writer.Status())),
		)...)
		inst.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		inst.total.Add(ctx, 1, attrs)
	}
}

// TracingMiddleware starts a server span per request via otelgin.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
