package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          string               `json:"id"`
	TenantID    string               `json:"tenantId"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	CreatedBy   string               `json:"createdBy"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// CreatorDTO names a project's creator. FullName is null once the creator
// has been deleted.
type CreatorDTO struct {
	ID       string  `json:"id"`
	FullName *string `json:"fullName"`
}

// ProjectListItemDTO represents a project in list responses
type ProjectListItemDTO struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	Status             models.ProjectStatus `json:"status"`
	CreatedBy          CreatorDTO           `json:"createdBy"`
	TaskCount          int64                `json:"taskCount"`
	CompletedTaskCount int64                `json:"completedTaskCount"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// ProjectListResponse represents a page of projects
type ProjectListResponse struct {
	Projects   []ProjectListItemDTO     `json:"projects"`
	Total      int64                    `json:"total"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project *models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		TenantID:    project.TenantID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func ToProjectListResponse(projects []repository.ProjectSummary, total int64, params utils.PaginationParams) ProjectListResponse {
	items := make([]ProjectListItemDTO, len(projects))
	for i, p := range projects {
		items[i] = ProjectListItemDTO{
			ID:                 p.ID,
			Name:               p.Name,
			Description:        p.Description,
			Status:             p.Status,
			CreatedBy:          CreatorDTO{ID: p.CreatedBy, FullName: p.CreatorName},
			TaskCount:          p.TaskCount,
			CompletedTaskCount: p.CompletedTaskCount,
			CreatedAt:          p.CreatedAt,
			UpdatedAt:          p.UpdatedAt,
		}
	}
	return ProjectListResponse{
		Projects:   items,
		Total:      total,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
