// internal/middleware/correlation_middleware.go
package middleware

import (
	"storefront-agent/internal/pkg/correlation"

	"github.com/gin-gonic/gin"
)

const correlationKey = "correlation_id"

// CorrelationMiddleware tags every local request with a correlation id, taken
// from the caller or minted, and puts it on the request context so backend
// calls made for the request carry it too.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlation.Header)
		if id == "" {
			id = correlation.FromOrNew(c.Request.Context())
		}

		c.Set(correlationKey, id)
		c.Header(correlation.Header, id)
		c.Request = c.Request.WithContext(correlation.With(c.Request.Context(), id))

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation id, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationKey)
}
