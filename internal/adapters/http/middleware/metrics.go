package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// label cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics returns middleware that records request totals by method, route
// and status code, request duration, and the in-flight gauge.
func Metrics(requests *prometheus.CounterVec, duration *prometheus.HistogramVec, inflight prometheus.Gauge) gin.HandlerFunc {
	return func(c *gin.Context) {
		inflight.Inc()
		defer inflight.Dec()

		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		code := strconv.Itoa(c.Writer.Status())
		requests.WithLabelValues(c.Request.Method, route, code).Inc()
		duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
