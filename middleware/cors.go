package middleware

import (
	"net/http"
	"os"
	"strings"

	"knowledge-api/pkg/appenv"

	"github.com/gin-gonic/gin"
)

// CORS configures cross-origin headers.
//   - Outside production any origin is allowed for convenience.
//   - In production the incoming Origin is reflected only when it appears
//     in the comma-separated ALLOWED_ORIGINS env var, and
//     Access-Control-Allow-Credentials is set when ALLOW_CREDENTIALS=true.
func CORS() gin.HandlerFunc {
	isProd := appenv.IsProduction()

	allowed := make(map[string]struct{})
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = struct{}{}
		}
	}
	allowCredentials := strings.EqualFold(os.Getenv("ALLOW_CREDENTIALS"), "true")

	const methods = "GET, POST, PUT, DELETE, OPTIONS"
	const headers = "Origin, Content-Type, Authorization"

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		c.Header("Vary", "Origin")

		switch {
		case !isProd:
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
		case origin != "":
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", methods)
				c.Header("Access-Control-Allow-Headers", headers)
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
			}
		}

		if c.Request.Method == http.MethodOptions {
			// Preflight. A disallowed origin gets 204 without allow
			// headers and the browser blocks the request.
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
