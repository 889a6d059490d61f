package controller

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/mhsanaei/todo-api/logger"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonError sends {"error": msg} with the given status.
func jsonError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// internalError logs a store fault and answers 500 without leaking it.
func internalError(c *gin.Context, action string, err error) {
	logger.Warning(action+" failed:", err)
	_ = c.Error(err)
	jsonError(c, http.StatusInternalServerError, "internal error")
}

// bindError answers 400 with the binding failure.
func bindError(c *gin.Context, err error) {
	jsonError(c, http.StatusBadRequest, err.Error())
}

// paramID parses the :id path segment. It answers 400 and returns false
// when the segment is not a number.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid id "+strconv.Quote(c.Param("id")))
		return 0, false
	}
	return id, true
}
