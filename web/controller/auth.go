package controller

import (
	"errors"
	"net/http"

	"github.com/mhsanaei/todo-api/logger"
	"github.com/mhsanaei/todo-api/web/entity"
	"github.com/mhsanaei/todo-api/web/middleware"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/gin-gonic/gin"
)

// AuthController exchanges credentials for access tokens.
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(g *gin.RouterGroup, authService *service.AuthService) *AuthController {
	a := &AuthController{authService: authService}
	g.POST("/token", a.login)
	return a
}

func (a *AuthController) login(c *gin.Context) {
	var form entity.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.Unauthorized(c, service.ErrBadCredentials.Error())
		return
	}

	token, err := a.authService.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		logger.Noticef("rejected login for %q from %s", form.Username, getRemoteIp(c))
		middleware.Unauthorized(c, "Incorrect username or password")
		return
	}
	if err != nil {
		internalError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, entity.Token{AccessToken: token, TokenType: "bearer"})
}
