package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// EnforceOrigin rejects cross-site browser requests when the Origin header
// disagrees with the request host. Requests without an Origin header (curl,
// provider callbacks) pass through; this is CSRF hardening, not an
// authorization boundary.
func EnforceOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		host := c.Request.Host
		if origin == "" || host == "" {
			c.Next()
			return
		}

		parsed, err := url.Parse(origin)
		if err != nil || parsed.Host != host {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid request origin"})
			return
		}

		c.Next()
	}
}
