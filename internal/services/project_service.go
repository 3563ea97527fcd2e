package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	tenantRepo  repository.TenantRepository
	audit       *AuditRecorder
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, tenantRepo repository.TenantRepository, audit *AuditRecorder) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		tenantRepo:  tenantRepo,
		audit:       audit,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
}

// CreateProject adds a project to the caller's tenant while the tenant is
// under max_projects. The limit is best-effort under concurrent creates.
func (s *ProjectService) CreateProject(ctx context.Context, actor Actor, input CreateProjectInput) (*models.Project, error) {
	if actor.TenantID == nil {
		return nil, ErrForbidden
	}

	name, err := requireMin("name", input.Name, constants.MinProjectNameLen)
	if err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !status.Valid() {
		return nil, invalid("status", "must be one of active, archived, completed")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, *actor.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	count, err := s.projectRepo.CountByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if count >= int64(tenant.MaxProjects) {
		return nil, ErrProjectLimit
	}

	project := &models.Project{
		TenantID:    tenant.ID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		CreatedBy:   actor.UserID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, tenant.ID, models.ActionCreateProject, models.EntityProject, project.ID))
	return project, nil
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	Status     *models.ProjectStatus
	Search     string
	Pagination utils.PaginationParams
}

// ListProjects lists the caller's tenant projects. A caller without a tenant
// sees an empty page.
func (s *ProjectService) ListProjects(ctx context.Context, actor Actor, input ListProjectsInput) ([]repository.ProjectSummary, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, invalid("status", "must be one of active, archived, completed")
	}
	if actor.TenantID == nil {
		return []repository.ProjectSummary{}, 0, nil
	}

	return s.projectRepo.List(ctx, repository.ProjectFilter{
		TenantID:   *actor.TenantID,
		Status:     input.Status,
		Search:     input.Search,
		Pagination: input.Pagination,
	})
}

// UpdateProjectInput carries the fields present in the request body
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

func (s *ProjectService) UpdateProject(ctx context.Context, actor Actor, projectID string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.authorize(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name, err := requireMin("name", *input.Name, constants.MinProjectNameLen)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, invalid("status", "must be one of active, archived, completed")
		}
		fields["status"] = *input.Status
	}
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	updated, err := s.projectRepo.Update(ctx, project.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, project.TenantID, models.ActionUpdateProject, models.EntityProject, project.ID))
	return updated, nil
}

// DeleteProject removes the project and its tasks
func (s *ProjectService) DeleteProject(ctx context.Context, actor Actor, projectID string) error {
	project, err := s.authorize(ctx, actor, projectID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, project.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, project.TenantID, models.ActionDeleteProject, models.EntityProject, project.ID))
	return nil
}

// authorize loads a project the actor may change: same tenant, and either a
// tenant admin or the project's creator
func (s *ProjectService) authorize(ctx context.Context, actor Actor, projectID string) (*models.Project, error) {
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
	if actor.Role != models.RoleTenantAdmin && actor.UserID != project.CreatedBy {
		return nil, ErrForbidden
	}
	return project, nil
}
