package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Requested-With", "X-Request-ID"}
)

// CORS allows any origin. Browser requests are handled by gin-contrib/cors;
// requests without an Origin header still get the permissive headers, and
// every OPTIONS request is answered with an empty 200.
func CORS() gin.HandlerFunc {
	browser := cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              corsMethods,
		AllowHeaders:              corsHeaders,
		ExposeHeaders:             []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:                    24 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	})

	return func(c *gin.Context) {
		if c.GetHeader("Origin") != "" {
			browser(c)
			if c.IsAborted() {
				return
			}
		} else {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-Requested-With, X-Request-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
