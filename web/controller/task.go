package controller

import (
	"net/http"

	"github.com/mhsanaei/todo-api/web/entity"
	"github.com/mhsanaei/todo-api/web/middleware"
	"github.com/mhsanaei/todo-api/web/service"

	"github.com/gin-gonic/gin"
)

// TaskController serves /tasks. A task the caller may not touch is
// reported as 404, the same as a task that does not exist.
type TaskController struct {
	BaseController

	taskService *service.TaskService
}

func NewTaskController(g *gin.RouterGroup, auth middleware.Authenticator, taskService *service.TaskService) *TaskController {
	a := &TaskController{
		BaseController: BaseController{auth: auth},
		taskService:    taskService,
	}
	a.initRouter(g)
	return a
}

func (a *TaskController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/tasks")
	g.Use(a.checkLogin)

	g.GET("", a.list)
	g.POST("", a.create)
	g.GET("/search/:tag", a.search)
	g.GET("/:id", a.get)
	g.PUT("/:id", a.update)
	g.DELETE("/:id", a.remove)
}

func (a *TaskController) list(c *gin.Context) {
	tasks, err := a.taskService.ReadTasks(c.Request.Context(), a.currentUserID(c))
	if err != nil {
		internalError(c, "list tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (a *TaskController) search(c *gin.Context) {
	tasks, err := a.taskService.FindTasksByTag(c.Request.Context(), a.currentUserID(c), c.Param("tag"))
	if err != nil {
		internalError(c, "search tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (a *TaskController) create(c *gin.Context) {
	var req entity.NewTask
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	task, err := a.taskService.CreateTask(c.Request.Context(), a.currentUserID(c), req.Name, req.Description, req.Tags)
	if err != nil {
		internalError(c, "create task", err)
		return
	}
	c.JSON(http.StatusOK, entity.TaskCreated{Id: task.Id})
}

func (a *TaskController) get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	task, err := a.taskService.FindTask(c.Request.Context(), a.currentUserID(c), id)
	if err != nil {
		internalError(c, "find task", err)
		return
	}
	if task == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (a *TaskController) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req entity.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	changes := service.TaskChanges{
		Name:        req.Name,
		Description: req.Description,
		Finished:    req.Finished,
		Tags:        req.Tags,
	}
	updated, err := a.taskService.UpdateTask(c.Request.Context(), a.currentUserID(c), id, changes)
	if err != nil {
		internalError(c, "update task", err)
		return
	}
	if !updated {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, nil)
}

func (a *TaskController) remove(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	removed, err := a.taskService.RemoveTask(c.Request.Context(), a.currentUserID(c), id)
	if err != nil {
		internalError(c, "remove task", err)
		return
	}
	if !removed {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, nil)
}
