// Package http provides a KServe-style HTTP frontend built on Gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/acl"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// readHeaderTimeout bounds slow clients while headers are read.
const readHeaderTimeout = 10 * time.Second

// Server is an HTTP frontend bound to one engine. It implements
// ports.FrontendService and ports.Releaser.
//
// Start and Stop are serialized. A Server can be restarted after Stop.
type Server struct {
	opts     Options
	engine   ports.EngineRef
	features domain.RestrictedFeatures
	logger   *slog.Logger
	router   *gin.Engine
	metrics  *serverMetrics

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewServer builds a server for engine from the configuration map. Nothing
// is bound until Start. Option errors are InvalidArgumentErrors.
func NewServer(
	engine ports.EngineRef,
	cfg domain.ConfigMap,
	features domain.RestrictedFeatures,
	logger *slog.Logger,
	buildInfo handlers.BuildInfo,
) (*Server, error) {
	opts, err := ParseOptions(cfg)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "http.Server"), slog.String("engine", engine.String()))

	registry := ports.NewHealthRegistry()
	if err := registry.Register(acl.NewEngineCheck(engine)); err != nil {
		return nil, domain.NewInternalError(err.Error())
	}

	s := &Server{
		opts:     opts,
		engine:   engine,
		features: features,
		logger:   logger,
		router:   gin.New(),
		metrics:  newServerMetrics(),
	}

	setupRouter(s.router, routerConfig{
		Logger:        logger,
		ServiceName:   buildInfo.Name,
		Options:       opts,
		Features:      features,
		HealthHandler: handlers.NewHealthHandler(engine, registry, buildInfo),
		Metrics:       s.metrics,
	})

	return s, nil
}

// Options returns the parsed options.
func (s *Server) Options() Options {
	return s.opts
}

// Handler returns the request router, for serving without a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener and begins serving in the background. Bind
// failures are reported synchronously. Starting a running server fails with
// StatusAlreadyExists.
func (s *Server) Start() ports.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return acl.FromError(domain.NewAlreadyExistsError("HTTP server is already running."))
	}

	lc, err := listenConfig(s.opts.ReusePort)
	if err != nil {
		return acl.FromError(err)
	}

	ln, err := lc.Listen(context.Background(), "tcp", s.opts.Addr())
	if err != nil {
		return acl.FromError(domain.NewUnavailableError(fmt.Sprintf("socket error on %s: %v", s.opts.Addr(), err)))
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped serving", slog.Any("error", err))
		}
	}()

	s.srv, s.listener, s.done = srv, ln, done

	s.logger.Info("HTTP server started",
		slog.String("addr", ln.Addr().String()),
		slog.Int("thread_count", s.opts.ThreadCount),
		slog.Bool("reuse_port", s.opts.ReusePort),
		slog.Any("restricted", s.features.Categories()),
	)

	return nil
}

// Stop shuts the server down, waiting up to shutdown_timeout_ms for
// in-flight requests before closing remaining connections. Stopping a server
// that is not running fails with StatusUnavailable.
func (s *Server) Stop() ports.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return acl.FromError(domain.NewUnavailableError("HTTP server is not running."))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout())
	defer cancel()

	err := s.srv.Shutdown(ctx)
	if err != nil {
		s.logger.Warn("graceful shutdown timed out, closing connections", slog.Any("error", err))
		_ = s.srv.Close()
	}

	<-s.done

	s.srv, s.listener, s.done = nil, nil, nil

	s.logger.Info("HTTP server stopped")

	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return acl.FromError(domain.NewInternalError("HTTP server shutdown: " + err.Error()))
	}

	return nil
}

// Release stops the server if it is still running. It implements
// ports.Releaser and is called when the owning frontend closes.
func (s *Server) Release() {
	s.mu.Lock()
	running := s.srv != nil
	s.mu.Unlock()

	if !running {
		return
	}

	if st := s.Stop(); st != nil {
		s.logger.Warn("stop on release failed", slog.String("error", st.Message()))
		st.Release()
	}
}

// Addr returns the bound address, or "" when not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}
