package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/acl"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/engine"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/dto"
	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
	"github.com/jsamuelsen/inference-frontend/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testBuildInfo = handlers.NewBuildInfo("inference-frontend", "test", "", "")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEngine registers a standalone engine and returns a reference to it.
func testEngine(t *testing.T, ready bool) (ports.EngineRef, *engine.Standalone) {
	t.Helper()

	eng := engine.NewStandalone(ready)
	tbl := engine.NewTable()
	h := tbl.Register(eng, nil)
	t.Cleanup(func() { _ = tbl.Delete(h) })

	return ports.BorrowEngine(h, tbl), eng
}

func newTestServer(t *testing.T, cfg domain.ConfigMap, features domain.RestrictedFeatures) (*Server, *engine.Standalone) {
	t.Helper()

	ref, eng := testEngine(t, true)

	srv, err := NewServer(ref, cfg, features, quietLogger(), testBuildInfo)
	require.NoError(t, err)

	return srv, eng
}

func loopback() domain.ConfigMap {
	return domain.ConfigMap{
		"address": domain.StringValue("127.0.0.1"),
		"port":    domain.IntValue(0),
	}
}

func get(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := ParseOptions(domain.ConfigMap{})
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, opts.Address)
	assert.Equal(t, DefaultPort, opts.Port)
	assert.False(t, opts.ReusePort)
	assert.Equal(t, DefaultThreadCount, opts.ThreadCount)
	assert.Empty(t, opts.HeaderForwardPattern)
	assert.Nil(t, opts.ForwardPattern())
	assert.Equal(t, 5*time.Second, opts.ShutdownTimeout())
	assert.Equal(t, "0.0.0.0:8001", opts.Addr())
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name      string
		cfg       domain.ConfigMap
		check     func(t *testing.T, o Options)
		wantError string
	}{
		{
			name: "all keys",
			cfg: domain.ConfigMap{
				"address":                domain.StringValue("localhost"),
				"port":                   domain.IntValue(9000),
				"reuse_port":             domain.BoolValue(true),
				"thread_count":           domain.IntValue(0),
				"header_forward_pattern": domain.StringValue("^x-model-.*"),
				"shutdown_timeout_ms":    domain.IntValue(250),
			},
			check: func(t *testing.T, o Options) {
				assert.Equal(t, "localhost:9000", o.Addr())
				assert.True(t, o.ReusePort)
				assert.Zero(t, o.ThreadCount)
				require.NotNil(t, o.ForwardPattern())
				assert.True(t, o.ForwardPattern().MatchString("x-model-version"))
				assert.Equal(t, 250*time.Millisecond, o.ShutdownTimeout())
			},
		},
		{
			name: "strings from environment are coerced",
			cfg: domain.ConfigMap{
				"port":         domain.StringValue("8001"),
				"thread_count": domain.StringValue(" 16 "),
				"reuse_port":   domain.StringValue("true"),
			},
			check: func(t *testing.T, o Options) {
				assert.Equal(t, 8001, o.Port)
				assert.Equal(t, 16, o.ThreadCount)
				assert.True(t, o.ReusePort)
			},
		},
		{
			name: "ipv6 address",
			cfg:  domain.ConfigMap{"address": domain.StringValue("::1"), "port": domain.IntValue(1)},
			check: func(t *testing.T, o Options) {
				assert.Equal(t, "[::1]:1", o.Addr())
			},
		},
		{
			name: "unknown keys ignored",
			cfg:  domain.ConfigMap{"grpc_port": domain.IntValue(8001)},
			check: func(t *testing.T, o Options) {
				assert.Equal(t, DefaultPort, o.Port)
			},
		},
		{name: "port too large", cfg: domain.ConfigMap{"port": domain.IntValue(65536)}, wantError: "port must be at most 65535"},
		{name: "negative port", cfg: domain.ConfigMap{"port": domain.IntValue(-1)}, wantError: "port must be at least 0"},
		{name: "negative threads", cfg: domain.ConfigMap{"thread_count": domain.IntValue(-2)}, wantError: "thread_count"},
		{name: "bad pattern", cfg: domain.ConfigMap{"header_forward_pattern": domain.StringValue("(")}, wantError: "header_forward_pattern"},
		{name: "empty address", cfg: domain.ConfigMap{"address": domain.StringValue("")}, wantError: "address"},
		{name: "port of wrong kind", cfg: domain.ConfigMap{"port": domain.BoolValue(true)}, wantError: `"port"`},
		{name: "port not numeric", cfg: domain.ConfigMap{"port": domain.StringValue("eighty")}, wantError: "not an integer"},
		{name: "reuse_port not boolean", cfg: domain.ConfigMap{"reuse_port": domain.StringValue("sometimes")}, wantError: "not a boolean"},
		{name: "address of wrong kind", cfg: domain.ConfigMap{"address": domain.IntValue(1)}, wantError: `"address"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseOptions(tt.cfg)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.True(t, domain.IsInvalidArgument(err), "got %T", err)
				assert.Contains(t, err.Error(), tt.wantError)

				return
			}

			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestFactory_InvalidOptionsReturnInvalidArgStatus(t *testing.T) {
	ref, _ := testEngine(t, true)

	srv, st := Factory(quietLogger(), testBuildInfo).Create(ref,
		domain.ConfigMap{"port": domain.IntValue(70000)}, domain.RestrictedFeatures{})

	require.NotNil(t, st)
	assert.Nil(t, srv)
	assert.Equal(t, ports.StatusInvalidArg, st.Code())
	assert.Contains(t, st.Message(), "port must be at most 65535")

	err := acl.Translate(st)
	assert.True(t, domain.IsInvalidArgument(err))
}

func TestFactory_Success(t *testing.T) {
	ref, _ := testEngine(t, true)

	srv, st := Factory(quietLogger(), testBuildInfo).Create(ref, loopback(), domain.RestrictedFeatures{})

	require.Nil(t, st)
	require.NotNil(t, srv)
	assert.Empty(t, srv.Addr())
}

func TestServer_Routes(t *testing.T) {
	srv, eng := newTestServer(t, loopback(), domain.RestrictedFeatures{})
	h := srv.Handler()

	w := get(t, h, "/v2/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"live":true}`, w.Body.String())

	assert.Equal(t, http.StatusOK, get(t, h, "/v2/health/ready", nil).Code)

	eng.SetReady(false)

	w = get(t, h, "/v2/health/ready", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "is not ready")

	w = get(t, h, "/v2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"inference-frontend"`)

	w = get(t, h, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `frontend_http_requests_total{code="200",method="GET",route="/v2/health/live"} 1`)
	assert.Contains(t, w.Body.String(), `frontend_http_requests_total{code="400",method="GET",route="/v2/health/ready"} 1`)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/v2/models/resnet/infer", nil).Code)
}

func TestServer_RestrictedRoutes(t *testing.T) {
	features, err := domain.NewRestrictedFeatures(
		domain.RestrictedRule{Category: domain.CategoryHealth, Key: "x-probe", Value: "p"},
		domain.RestrictedRule{Category: domain.CategoryMetadata, Key: "x-meta", Value: "m"},
	)
	require.NoError(t, err)

	srv, _ := newTestServer(t, loopback(), features)
	h := srv.Handler()

	tests := []struct {
		path   string
		header map[string]string
		want   int
		key    string
	}{
		{"/v2/health/live", nil, http.StatusForbidden, "x-probe"},
		{"/v2/health/ready", map[string]string{"x-meta": "m"}, http.StatusForbidden, "x-probe"},
		{"/v2/health/live", map[string]string{"x-probe": "p"}, http.StatusOK, ""},
		{"/v2", nil, http.StatusForbidden, "x-meta"},
		{"/v2", map[string]string{"x-meta": "m"}, http.StatusOK, ""},
		{"/metrics", map[string]string{"x-probe": "p"}, http.StatusForbidden, "x-meta"},
		{"/metrics", map[string]string{"x-meta": "m"}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %v", tt.path, tt.header), func(t *testing.T) {
			w := get(t, h, tt.path, tt.header)

			assert.Equal(t, tt.want, w.Code)

			if tt.want == http.StatusForbidden {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "This API is restricted, expecting header '"+tt.key+"'", resp.Error.Message)
			}
		})
	}
}

func TestServer_HeaderForwardLogsMatchingHeaders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ref, _ := testEngine(t, true)
	cfg := loopback()
	cfg["header_forward_pattern"] = domain.StringValue("^x-model-")

	srv, err := NewServer(ref, cfg, domain.RestrictedFeatures{}, logger, testBuildInfo)
	require.NoError(t, err)

	get(t, srv.Handler(), "/v2", map[string]string{"X-Model-Version": "7", "X-Other": "no"})

	var completed string
	for line := range strings.SplitSeq(buf.String(), "\n") {
		if strings.Contains(line, "request completed") {
			completed = line
		}
	}

	require.NotEmpty(t, completed)
	assert.Contains(t, completed, `"x-model-version":"7"`)
	assert.NotContains(t, completed, "x-other")
}

func TestServer_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv, _ := newTestServer(t, loopback(), domain.RestrictedFeatures{})

	require.Nil(t, srv.Start())

	addr := srv.Addr()
	require.NotEmpty(t, addr)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}

	resp, err := client.Get("http://" + addr + "/v2/health/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	st := srv.Start()
	require.NotNil(t, st)
	assert.Equal(t, ports.StatusAlreadyExists, st.Code())
	assert.Equal(t, "HTTP server is already running.", st.Message())
	st.Release()

	require.Nil(t, srv.Stop())
	assert.Empty(t, srv.Addr())

	st = srv.Stop()
	require.NotNil(t, st)
	assert.Equal(t, ports.StatusUnavailable, st.Code())
	assert.Equal(t, "HTTP server is not running.", st.Message())
	st.Release()

	_, err = client.Get("http://" + addr + "/v2/health/live")
	require.Error(t, err)

	// restart on a fresh ephemeral port
	require.Nil(t, srv.Start())
	require.Nil(t, srv.Stop())
}

func TestServer_StartBindFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port

	srv, _ := newTestServer(t, domain.ConfigMap{
		"address": domain.StringValue("127.0.0.1"),
		"port":    domain.IntValue(int64(port)),
	}, domain.RestrictedFeatures{})

	st := srv.Start()
	require.NotNil(t, st)
	assert.Equal(t, ports.StatusUnavailable, st.Code())
	assert.Contains(t, st.Message(), "socket error")
	st.Release()

	assert.Empty(t, srv.Addr())
}

func TestServer_ReleaseStopsRunningServer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv, _ := newTestServer(t, loopback(), domain.RestrictedFeatures{})

	srv.Release()

	require.Nil(t, srv.Start())
	require.NotEmpty(t, srv.Addr())

	srv.Release()

	assert.Empty(t, srv.Addr())
}
