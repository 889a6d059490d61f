// Package controller provides the HTTP handlers of the todo API. Each
// controller registers its routes on the group it is given.
package controller

import (
	"net/http"

	"github.com/mhsanaei/todo-api/web/middleware"

	"github.com/gin-gonic/gin"
)

// BaseController provides the authentication gate shared by every
// controller that serves a logged-in user.
type BaseController struct {
	auth middleware.Authenticator
}

// checkLogin aborts with 401 unless the request carries a valid bearer token.
func (a *BaseController) checkLogin(c *gin.Context) {
	middleware.JWTAuth(a.auth)(c)
}

// currentUserID returns the id of the user checkLogin admitted.
func (a *BaseController) currentUserID(c *gin.Context) int {
	return middleware.GetUserID(c)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
}
