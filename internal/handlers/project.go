package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string               `json:"name" binding:"required"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=active archived completed"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), actor(c), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Created(c, dto.ToProjectDTO(project), "Project created successfully")
}

// ListProjects returns the caller's tenant projects with task counts
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params, ok := pagination(c, constants.DefaultProjectPageSize)
	if !ok {
		return
	}

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), actor(c), services.ListProjectsInput{
		Status:     queryEnum[models.ProjectStatus](c, "status"),
		Search:     c.Query("search"),
		Pagination: params,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.OK(c, dto.ToProjectListResponse(projects, total, params), "")
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), actor(c), c.Param("projectId"), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.OK(c, dto.ToProjectDTO(project), "Project updated successfully")
}

// DeleteProject removes the project together with its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Request.Context(), actor(c), c.Param("projectId")); err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.OK(c, nil, "Project deleted successfully")
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrProjectLimit):
		apierrors.Forbidden(c, "Project limit reached")
	default:
		respondServiceError(c, err)
	}
}
