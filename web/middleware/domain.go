package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DomainValidator rejects with 403 any request whose Host is not domain.
// The comparison ignores the port and letter case.
func DomainValidator(domain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.Host)
		if err != nil {
			host = c.Request.Host
		}

		if !strings.EqualFold(host, domain) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown host"})
			return
		}

		c.Next()
	}
}
