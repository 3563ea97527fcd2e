package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	audit       *AuditRecorder
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	audit *AuditRecorder,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		audit:       audit,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	AssignedTo  *string
	DueDate     *time.Time
}

// CreateTask adds a todo task to a project of the caller's tenant
func (s *TaskService) CreateTask(ctx context.Context, actor Actor, projectID string, input CreateTaskInput) (*models.Task, error) {
	project, err := s.projectInScope(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	title, err := requireMin("title", input.Title, constants.MinTaskTitleLength)
	if err != nil {
		return nil, err
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("priority", "must be one of low, medium, high")
	}
	if input.AssignedTo != nil && *input.AssignedTo != "" {
		if err := s.checkAssignee(ctx, *input.AssignedTo, project.TenantID); err != nil {
			return nil, err
		}
	} else {
		input.AssignedTo = nil
	}

	task := &models.Task{
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, project.TenantID, models.ActionCreateTask, models.EntityTask, task.ID))

	created, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return created, nil
}

// ListTasksInput represents filters for listing a project's tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *string
	Search     string
	Pagination utils.PaginationParams
}

// ListTasks returns a project's tasks, high priority first and soonest due
// first within a priority
func (s *TaskService) ListTasks(ctx context.Context, actor Actor, projectID string, input ListTasksInput) ([]models.Task, int64, error) {
	project, err := s.projectInScope(ctx, actor, projectID)
	if err != nil {
		return nil, 0, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, invalid("status", "must be one of todo, in_progress, completed")
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, 0, invalid("priority", "must be one of low, medium, high")
	}

	return s.taskRepo.List(ctx, repository.TaskFilter{
		ProjectID:  project.ID,
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		Search:     input.Search,
		Pagination: input.Pagination,
	})
}

// UpdateTaskStatus changes only the status. Any status may follow any other.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, actor Actor, taskID string, status models.TaskStatus) (*models.Task, error) {
	task, err := s.taskInScope(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status", "must be one of todo, in_progress, completed")
	}

	updated, err := s.taskRepo.Update(ctx, task.ID, map[string]interface{}{"status": status})
	if err != nil {
		return nil, s.updateError(err)
	}

	s.audit.Record(ctx, entryFor(actor, task.TenantID, models.ActionUpdateTaskStatus, models.EntityTask, task.ID))
	return updated, nil
}

// UpdateTaskInput carries the fields present in the request body. AssignedTo
// and DueDate may be explicitly null to clear them.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  Optional[string]
	DueDate     Optional[time.Time]
}

// UpdateTask changes the fields present in input and leaves the rest alone
func (s *TaskService) UpdateTask(ctx context.Context, actor Actor, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskInScope(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title, err := requireMin("title", *input.Title, constants.MinTaskTitleLength)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, invalid("status", "must be one of todo, in_progress, completed")
		}
		fields["status"] = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, invalid("priority", "must be one of low, medium, high")
		}
		fields["priority"] = *input.Priority
	}
	if input.AssignedTo.Present {
		if input.AssignedTo.Value == nil || *input.AssignedTo.Value == "" {
			fields["assigned_to"] = nil
		} else {
			if err := s.checkAssignee(ctx, *input.AssignedTo.Value, task.TenantID); err != nil {
				return nil, err
			}
			fields["assigned_to"] = *input.AssignedTo.Value
		}
	}
	if input.DueDate.Present {
		if input.DueDate.Value == nil {
			fields["due_date"] = nil
		} else {
			fields["due_date"] = *input.DueDate.Value
		}
	}
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	updated, err := s.taskRepo.Update(ctx, task.ID, fields)
	if err != nil {
		return nil, s.updateError(err)
	}

	s.audit.Record(ctx, entryFor(actor, task.TenantID, models.ActionUpdateTask, models.EntityTask, task.ID))
	return updated, nil
}

func (s *TaskService) projectInScope(ctx context.Context, actor Actor, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if !actor.InTenant(project.TenantID) {
		return nil, ErrForbidden
	}
	return project, nil
}

func (s *TaskService) taskInScope(ctx context.Context, actor Actor, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !actor.InTenant(task.TenantID) {
		return nil, ErrForbidden
	}
	return task, nil
}

// checkAssignee requires userID to be a member of tenantID
func (s *TaskService) checkAssignee(ctx context.Context, userID, tenantID string) error {
	ok, err := s.userRepo.BelongsToTenant(ctx, userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	if !ok {
		return ErrAssigneeNotInScope
	}
	return nil
}

func (s *TaskService) updateError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return fmt.Errorf("failed to update task: %w", err)
}
