package middleware

import (
	"crypto/subtle"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inference-frontend/internal/adapters/http/dto"
	"github.com/jsamuelsen/inference-frontend/internal/domain"
)

// Restricted returns middleware that admits a request only if it carries
// header rule.Key with exactly rule.Value. Others get 403.
func Restricted(rule domain.RestrictedRule) gin.HandlerFunc {
	want := []byte(rule.Value)
	msg := fmt.Sprintf("This API is restricted, expecting header '%s'", rule.Key)

	return func(c *gin.Context) {
		values, present := c.Request.Header[canonical(rule.Key)]
		if !present || len(values) == 0 || subtle.ConstantTimeCompare([]byte(values[0]), want) != 1 {
			dto.AbortWithCode(c, dto.ErrorCodeForbidden, msg)
			return
		}

		c.Next()
	}
}

// RestrictedCategory guards cat if features restrict it; otherwise it only
// calls the next handler.
func RestrictedCategory(features domain.RestrictedFeatures, cat domain.RestrictedCategory) gin.HandlerFunc {
	rule, ok := features.Rule(cat)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return Restricted(rule)
}
