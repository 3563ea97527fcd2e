package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// TaskDTO represents a task in API responses. AssignedTo is null for an
// unassigned task.
type TaskDTO struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"projectId"`
	TenantID    string              `json:"tenantId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  *UserRefDTO         `json:"assignedTo"`
	DueDate     *time.Time          `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskListResponse represents a page of a project's tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Total      int64                    `json:"total"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO. The assignee must be preloaded
// for AssignedTo to be filled.
func ToTaskDTO(task *models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		TenantID:    task.TenantID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.AssignedTo != nil {
		ref := &UserRefDTO{ID: *task.AssignedTo}
		if task.Assignee != nil {
			ref.FullName = task.Assignee.FullName
			ref.Email = task.Assignee.Email
		}
		dto.AssignedTo = ref
	}
	return dto
}

func ToTaskListResponse(tasks []models.Task, total int64, params utils.PaginationParams) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i := range tasks {
		items[i] = ToTaskDTO(&tasks[i])
	}
	return TaskListResponse{
		Tasks:      items,
		Total:      total,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
