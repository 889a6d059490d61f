package controller

import (
	"net/http"
	"strconv"

	"github.com/mhsanaei/todo-api/web/entity"
	"github.com/mhsanaei/todo-api/web/middleware"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/gin-gonic/gin"
)

// PermissionController lets a task's creator share it with other users.
type PermissionController struct {
	BaseController

	authz             *service.AuthorizationService
	permissionService *service.PermissionService
}

func NewPermissionController(
	g *gin.RouterGroup,
	auth middleware.Authenticator,
	authz *service.AuthorizationService,
	permissionService *service.PermissionService,
) *PermissionController {
	a := &PermissionController{
		BaseController:    BaseController{auth: auth},
		authz:             authz,
		permissionService: permissionService,
	}
	a.initRouter(g)
	return a
}

func (a *PermissionController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/tasks/:id/permissions")
	g.Use(a.checkLogin)

	g.GET("", a.list)
	g.POST("", a.grant)
	g.DELETE("", a.revoke)
}

// list is restricted to the creator; FindPermissions itself does not check.
func (a *PermissionController) list(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userId := a.currentUserID(c)

	creator, err := a.authz.IsCreator(ctx, userId, id)
	if err != nil {
		internalError(c, "check task creator", err)
		return
	}
	if !creator {
		notFound(c)
		return
	}

	perms, err := a.permissionService.FindPermissions(ctx, userId, id)
	if err != nil {
		internalError(c, "list permissions", err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

func (a *PermissionController) grant(c *gin.Context) {
	id, req, ok := a.bind(c)
	if !ok {
		return
	}
	granted, err := a.permissionService.AddPermission(c.Request.Context(), a.currentUserID(c), id, req.RecipientId, req.PermType)
	if err != nil {
		internalError(c, "add permission", err)
		return
	}
	if !granted {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, nil)
}

func (a *PermissionController) revoke(c *gin.Context) {
	id, req, ok := a.bind(c)
	if !ok {
		return
	}
	revoked, err := a.permissionService.RemovePermission(c.Request.Context(), a.currentUserID(c), id, req.RecipientId, req.PermType)
	if err != nil {
		internalError(c, "remove permission", err)
		return
	}
	if !revoked {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, nil)
}

func (a *PermissionController) bind(c *gin.Context) (int, entity.PermissionRequest, bool) {
	var req entity.PermissionRequest
	id, ok := paramID(c)
	if !ok {
		return 0, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return 0, req, false
	}
	if !req.PermType.IsValid() {
		jsonError(c, http.StatusBadRequest, "invalid perm_type "+strconv.Quote(string(req.PermType)))
		return 0, req, false
	}
	return id, req, true
}
