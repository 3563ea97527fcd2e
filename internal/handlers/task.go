package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask adds a task to a project of the caller's tenant
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		AssignedTo  *string             `json:"assignedTo"`
		DueDate     *string             `json:"dueDate"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			respondTaskError(c, err)
			return
		}
		dueDate = &t
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor(c), c.Param("projectId"), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     dueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.Created(c, dto.ToTaskDTO(task), "Task created successfully")
}

// ListTasks returns a project's tasks, most urgent first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params, ok := pagination(c, constants.DefaultTaskPageSize)
	if !ok {
		return
	}

	var assignedTo *string
	if v := c.Query("assignedTo"); v != "" {
		assignedTo = &v
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), actor(c), c.Param("projectId"), services.ListTasksInput{
		Status:     queryEnum[models.TaskStatus](c, "status"),
		Priority:   queryEnum[models.TaskPriority](c, "priority"),
		AssignedTo: assignedTo,
		Search:     c.Query("search"),
		Pagination: params,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.OK(c, dto.ToTaskListResponse(tasks, total, params), "")
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	type UpdateTaskStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskStatus(c.Request.Context(), actor(c), c.Param("taskId"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.OK(c, dto.ToTaskDTO(task), "Task status updated successfully")
}

// UpdateTask applies the fields present in the body. assignedTo and dueDate
// may be null to clear them.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	body, ok := readObject(c)
	if !ok {
		return
	}

	input, err := parseUpdateTask(body)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actor(c), c.Param("taskId"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	apierrors.OK(c, dto.ToTaskDTO(task), "Task updated successfully")
}

func parseUpdateTask(body []byte) (input services.UpdateTaskInput, err error) {
	if input.Title, err = optString(body, "title"); err != nil {
		return input, err
	}
	if input.Description, err = optString(body, "description"); err != nil {
		return input, err
	}
	if input.Status, err = optEnum[models.TaskStatus](body, "status"); err != nil {
		return input, err
	}
	if input.Priority, err = optEnum[models.TaskPriority](body, "priority"); err != nil {
		return input, err
	}
	if input.AssignedTo, err = nullableString(body, "assignedTo"); err != nil {
		return input, err
	}
	input.DueDate, err = nullableDate(body, "dueDate")
	return input, err
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAssigneeNotInScope):
		apierrors.BadRequest(c, "assignedTo must belong to same tenant")
	default:
		respondServiceError(c, err)
	}
}
