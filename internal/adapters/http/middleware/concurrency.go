package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/dto"
)

// Concurrency bounds in-flight requests to limit. Excess requests wait for a
// slot; one whose context ends while waiting gets 503. limit <= 0 disables
// the bound.
func Concurrency(limit int64) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	sem := semaphore.NewWeighted(limit)

	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			dto.AbortWithCode(c, dto.ErrorCodeUnavailable, "request cancelled while waiting for a worker")
			return
		}
		defer sem.Release(1)

		c.Next()
	}
}
