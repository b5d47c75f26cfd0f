// internal/middleware/cors_middleware.go
package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"storefront-agent/internal/pkg/correlation"

	"github.com/gin-gonic/gin"
)

type CORSConfig struct {
	AllowOrigins []string
	MaxAge       int // seconds
}

var (
	corsMethods = strings.Join([]string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}, ", ")
	corsHeaders = strings.Join([]string{"Origin", "Content-Type", "Accept", correlation.Header}, ", ")
)

// CORSMiddleware lets the UI, usually served from another port, call the
// local surface. "*" allows any origin.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	anyOrigin := len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (anyOrigin || slices.Contains(cfg.AllowOrigins, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", corsMethods)
			c.Header("Access-Control-Allow-Headers", corsHeaders)
			c.Header("Access-Control-Expose-Headers", correlation.Header)
			c.Header("Vary", "Origin")
			if cfg.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// OriginAllowed reports whether origin may open the UI socket.
func (cfg CORSConfig) OriginAllowed(origin string) bool {
	if origin == "" || len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*") {
		return true
	}
	return slices.Contains(cfg.AllowOrigins, origin)
}
