// Package middleware holds the gin middleware of the todo API: bearer
// authentication, request logging and prometheus metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mhsanaei/todo-api/database/model"
	"github.com/mhsanaei/todo-api/logger"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/gin-gonic/gin"
)

const userKey = "todo_user"

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// SetUser stores the authenticated user in the gin context.
func SetUser(c *gin.Context, user *model.User) {
	c.Set(userKey, user)
}

// GetUser returns the user stored by JWTAuth, or nil.
func GetUser(c *gin.Context) *model.User {
	if v, exists := c.Get(userKey); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID returns the id of the authenticated user, or 0.
func GetUserID(c *gin.Context) int {
	if user := GetUser(c); user != nil {
		return user.Id
	}
	return 0
}

// Unauthorized aborts with 401 and the bearer challenge header.
func Unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// JWTAuth rejects requests without a valid bearer token. A token that names
// a deleted user is rejected the same way.
func JWTAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			Unauthorized(c, "not authenticated")
			return
		}

		user, err := auth.CurrentUser(c.Request.Context(), token)
		if errors.Is(err, service.ErrInvalidToken) {
			Unauthorized(c, service.ErrInvalidToken.Error())
			return
		}
		if err != nil {
			logger.Warning("authenticate request:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
