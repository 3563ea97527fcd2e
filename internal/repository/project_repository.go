package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Create(project).Error)
}

func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *GormProjectRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

// List retrieves a tenant's projects. The creator is LEFT JOINed since
// created_by carries no foreign key.
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]ProjectSummary, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("projects.tenant_id = ?", filter.TenantID).
		Scopes(database.ContainsFold(filter.Search, "projects.name"))
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	var projects []ProjectSummary
	err := query.
		Select("projects.*, users.full_name AS creator_name, " +
			"(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id) AS task_count, " +
			"(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id AND tasks.status = 'completed') AS completed_task_count").
		Joins("LEFT JOIN users ON users.id = projects.created_by").
		Order("projects.created_at DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Scan(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

func (r *GormProjectRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Project, error) {
	if err := r.db.WithContext(ctx).Model(&models.Project{ID: id}).Updates(fields).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes the project's tasks first so the result is the same with or
// without foreign key enforcement
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
