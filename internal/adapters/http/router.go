package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/middleware"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/platform/telemetry"
)

// routerConfig contains configuration for setting up the router.
type routerConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName names the server in spans.
	ServiceName string

	// Options are the parsed frontend options.
	Options Options

	// Features decides which route groups require a header.
	Features domain.RestrictedFeatures

	// HealthHandler handles health and metadata endpoints.
	HealthHandler *handlers.HealthHandler

	// Metrics backs /metrics. Nil disables the route and its middleware.
	Metrics *serverMetrics
}

// setupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Context logger - scope the logger to the request
//  2. Recovery - catch panics
//  3. Request ID - generate/extract request ID
//  4. OpenTelemetry - tracing and metrics
//  5. Prometheus - per-server request metrics
//  6. Concurrency - thread_count bound
//  7. Header forwarding - header_forward_pattern
//  8. Logging - request logging (skips probes and scrapes)
//
// Routes:
//   - GET /v2 (metadata)
//   - GET /v2/health/live, GET /v2/health/ready (health)
//   - GET /metrics (metadata)
func setupRouter(engine *gin.Engine, cfg routerConfig) {
	mw := []gin.HandlerFunc{
		middleware.ContextLogger(cfg.Logger),
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
	}

	if cfg.Metrics != nil {
		mw = append(mw, middleware.Metrics(cfg.Metrics.requests, cfg.Metrics.duration, cfg.Metrics.inflight))
	}

	mw = append(mw,
		middleware.Concurrency(int64(cfg.Options.ThreadCount)),
		middleware.HeaderForward(cfg.Options.ForwardPattern()),
		middleware.Logging(cfg.Logger, nil),
	)

	engine.Use(mw...)

	metadata := middleware.RestrictedCategory(cfg.Features, domain.CategoryMetadata)

	v2 := engine.Group("/v2")
	v2.GET("", metadata, cfg.HealthHandler.ServerMetadata)

	health := v2.Group("/health", middleware.RestrictedCategory(cfg.Features, domain.CategoryHealth))
	cfg.HealthHandler.RegisterHealthRoutes(health)

	if cfg.Metrics != nil {
		engine.GET("/metrics", metadata, gin.WrapH(handlers.MetricsHandler(cfg.Metrics.registry)))
	}
}
