package controller

import (
	"net/http"

	"github.com/mhsanaei/todo-api/web/entity"
	"github.com/mhsanaei/todo-api/web/middleware"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/gin-gonic/gin"
)

const usernameTaken = "That username is taken. Try another"

// UserController serves registration and the current user's account.
type UserController struct {
	BaseController

	authService *service.AuthService
	userService *service.UserService
}

func NewUserController(g *gin.RouterGroup, authService *service.AuthService, userService *service.UserService) *UserController {
	a := &UserController{
		BaseController: BaseController{auth: authService},
		authService:    authService,
		userService:    userService,
	}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.POST("/user", a.register)

	me := g.Group("/user")
	me.Use(a.checkLogin)
	me.GET("", a.show)
	me.PUT("", a.rename)
	me.DELETE("", a.remove)
}

func (a *UserController) register(c *gin.Context) {
	var req entity.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ok, err := a.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		internalError(c, "register user", err)
		return
	}
	if !ok {
		jsonError(c, http.StatusConflict, usernameTaken)
		return
	}
	c.JSON(http.StatusOK, nil)
}

func (a *UserController) show(c *gin.Context) {
	c.JSON(http.StatusOK, entity.NewUserView(middleware.GetUser(c)))
}

// rename changes the username. Tokens carry the user id, so they stay valid.
func (a *UserController) rename(c *gin.Context) {
	var req entity.UsernameUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ok, err := a.userService.UpdateUsername(c.Request.Context(), a.currentUserID(c), req.Username)
	if err != nil {
		internalError(c, "update username", err)
		return
	}
	if !ok {
		jsonError(c, http.StatusConflict, usernameTaken)
		return
	}
	c.JSON(http.StatusOK, nil)
}

// remove deletes the current user together with their tasks and grants.
func (a *UserController) remove(c *gin.Context) {
	if err := a.userService.RemoveUser(c.Request.Context(), a.currentUserID(c)); err != nil {
		internalError(c, "remove user", err)
		return
	}
	c.JSON(http.StatusOK, nil)
}
