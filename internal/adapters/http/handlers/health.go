// Package handlers provides HTTP request handlers for the frontend.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/acl"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/dto"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

// BuildInfo contains build-time information about the binary.
// These values are typically injected at build time using ldflags.
type BuildInfo struct {
	// Name is reported as the server name by the metadata endpoint.
	Name string `json:"name"`

	// Version is the semantic version of the binary.
	Version string `json:"version"`

	// Commit is the git commit SHA.
	Commit string `json:"commit"`

	// BuildTime is the timestamp when the binary was built.
	BuildTime string `json:"buildTime"`

	// GoVersion is the Go version used to build the binary.
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo creates a BuildInfo with the Go version automatically set.
func NewBuildInfo(name, version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Name:      name,
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// Extensions lists the protocol extensions this frontend implements.
var Extensions = []string{}

// HealthHandler serves the health and server metadata endpoints for one
// engine.
type HealthHandler struct {
	engine    ports.EngineRef
	registry  ports.HealthRegistry
	buildInfo BuildInfo
}

// NewHealthHandler creates a handler answering for engine. Readiness is
// decided by registry, which normally contains engine itself.
func NewHealthHandler(engine ports.EngineRef, registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{
		engine:    engine,
		registry:  registry,
		buildInfo: buildInfo,
	}
}

// healthResponse is the body of the health endpoints.
type healthResponse struct {
	Live   *bool                         `json:"live,omitempty"`
	Ready  *bool                         `json:"ready,omitempty"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Live handles GET /v2/health/live. It answers 200 when the engine reports
// live and 400 when it does not. Engine failures are returned as errors.
func (h *HealthHandler) Live(c *gin.Context) {
	eng, ok := h.engine.Engine()
	if !ok {
		dto.HandleError(c, domain.NewUnavailableError(h.engine.String()+" is not resolvable"))
		return
	}

	live, st := eng.IsLive()
	if err := acl.Translate(st); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(probeStatus(live), healthResponse{Live: &live})
}

// Ready handles GET /v2/health/ready. It answers 200 when every registered
// check passes and 400 otherwise, listing the failed checks.
func (h *HealthHandler) Ready(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())
	ready := result.Status == ports.HealthStatusHealthy

	resp := healthResponse{Ready: &ready}
	if !ready {
		resp.Checks = result.Checks
	}

	c.JSON(probeStatus(ready), resp)
}

// serverMetadataResponse is the body of GET /v2.
type serverMetadataResponse struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Extensions []string `json:"extensions"`
}

// ServerMetadata handles GET /v2.
func (h *HealthHandler) ServerMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, serverMetadataResponse{
		Name:       h.buildInfo.Name,
		Version:    h.buildInfo.Version,
		Extensions: Extensions,
	})
}

// MetricsHandler returns an http.Handler exposing the collectors in g.
// Use this with gin.WrapH() to register it as a route.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RegisterHealthRoutes registers the probe routes on rg, which is expected
// to be mounted at /v2/health:
//   - GET live
//   - GET ready
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Live)
	rg.GET("/ready", h.Ready)
}

func probeStatus(ok bool) int {
	if ok {
		return http.StatusOK
	}

	return http.StatusBadRequest
}
