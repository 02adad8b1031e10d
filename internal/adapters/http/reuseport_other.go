//go:build !linux

package http

import (
	"net"

	"github.com/jsamuelsen/inference-frontend/internal/domain"
)

// listenConfig returns a plain ListenConfig. reuse_port is linux-only.
func listenConfig(reusePort bool) (net.ListenConfig, error) {
	if reusePort {
		return net.ListenConfig{}, domain.NewUnsupportedError("reuse_port is only supported on linux")
	}

	return net.ListenConfig{}, nil
}
