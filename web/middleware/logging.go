package middleware

import (
	"time"

	"github.com/mhsanaei/todo-api/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one line per request through the application logger.
// Server errors are logged as warnings, everything else at debug.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status >= 500 {
			logger.Warningf("%s %s -> %d (%v) %s", c.Request.Method, c.Request.URL.Path, status, latency, c.Errors.String())
			return
		}
		logger.Debugf("%s %s -> %d (%v) from %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
	}
}
