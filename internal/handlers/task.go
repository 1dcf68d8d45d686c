package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/logger"
	"github.com/taskhive/taskhive/pkg/response"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List returns the caller's tasks
// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(middleware.Principal(c))
	if err != nil {
		logger.Error().Err(err).Msg("task list failed")
		response.ServerError(c, "could not list tasks")
		return
	}
	response.Success(c, tasks)
}

// ListCompleted returns the caller's completed tasks
// GET /api/tasks/completed
func (h *TaskHandler) ListCompleted(c *gin.Context) {
	tasks, err := h.tasks.ListCompleted(middleware.Principal(c))
	if err != nil {
		logger.Error().Err(err).Msg("completed task list failed")
		response.ServerError(c, "could not list tasks")
		return
	}
	response.Success(c, tasks)
}

// ListByDate returns the caller's tasks due on a given day
// GET /api/tasks/date/:date
func (h *TaskHandler) ListByDate(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	tasks, err := h.tasks.ListByDeadline(middleware.Principal(c), day)
	if err != nil {
		logger.Error().Err(err).Msg("task list by date failed")
		response.ServerError(c, "could not list tasks")
		return
	}
	response.Success(c, tasks)
}

// Create creates a task for the caller
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.Create(middleware.Principal(c), &req)
	if err != nil {
		logger.Error().Err(err).Msg("task create failed")
		response.ServerError(c, "could not create task")
		return
	}
	response.Created(c, task)
}

// Update updates one of the caller's tasks
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.Update(middleware.Principal(c), c.Param("id"), &req)
	switch {
	case err == nil:
		response.Success(c, task)
	case errors.Is(err, services.ErrTaskNotFound):
		response.NotFound(c, "task not found")
	case errors.Is(err, services.ErrNotTaskOwner):
		response.Forbidden(c, "task belongs to another user")
	default:
		logger.Error().Err(err).Msg("task update failed")
		response.ServerError(c, "could not update task")
	}
}

// Delete removes one of the caller's tasks
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	err := h.tasks.Delete(middleware.Principal(c), c.Param("id"))
	switch {
	case err == nil:
		response.Success(c, nil)
	case errors.Is(err, services.ErrTaskNotFound):
		response.NotFound(c, "task not found")
	case errors.Is(err, services.ErrNotTaskOwner):
		response.Forbidden(c, "task belongs to another user")
	default:
		logger.Error().Err(err).Msg("task delete failed")
		response.ServerError(c, "could not delete task")
	}
}
