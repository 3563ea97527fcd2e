package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// GormTenantRepository is a GORM implementation of TenantRepository
type GormTenantRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateTenant is returned when inserting the tenant fails inside the registration transaction.
	ErrCreateTenant = errors.New("tenant repository: create tenant failed")
	// ErrCreateAdmin is returned when inserting the first admin fails inside the registration transaction.
	ErrCreateAdmin = errors.New("tenant repository: create admin failed")
)

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &GormTenantRepository{db: db}
}

// CreateWithAdmin creates the tenant, then the admin pointing at it. Either
// both rows are committed or neither is.
func (r *GormTenantRepository) CreateWithAdmin(ctx context.Context, tenant *models.Tenant, admin *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateTenant, translate(err))
		}

		admin.TenantID = &tenant.ID
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateAdmin, translate(err))
		}

		return nil
	})
}

func (r *GormTenantRepository) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (r *GormTenantRepository) FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (r *GormTenantRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Tenant, error) {
	if err := r.db.WithContext(ctx).Model(&models.Tenant{ID: id}).Updates(fields).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, id)
}

// List retrieves tenants with filtering and pagination
func (r *GormTenantRepository) List(ctx context.Context, filter TenantFilter) ([]TenantSummary, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Tenant{})
	if filter.Status != nil {
		query = query.Where("tenants.status = ?", *filter.Status)
	}
	if filter.SubscriptionPlan != nil {
		query = query.Where("tenants.subscription_plan = ?", *filter.SubscriptionPlan)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	var tenants []TenantSummary
	err := query.
		Select("tenants.*, " +
			"(SELECT COUNT(*) FROM users WHERE users.tenant_id = tenants.id) AS total_users, " +
			"(SELECT COUNT(*) FROM projects WHERE projects.tenant_id = tenants.id) AS total_projects").
		Order("tenants.created_at DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Scan(&tenants).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	return tenants, total, nil
}

func (r *GormTenantRepository) Stats(ctx context.Context, id string) (TenantStats, error) {
	var stats TenantStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Where("tenant_id = ?", id).Count(&stats.TotalUsers).Error; err != nil {
		return stats, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Project{}).Where("tenant_id = ?", id).Count(&stats.TotalProjects).Error; err != nil {
		return stats, fmt.Errorf("failed to count projects: %w", err)
	}
	if err := db.Model(&models.Task{}).Where("tenant_id = ?", id).Count(&stats.TotalTasks).Error; err != nil {
		return stats, fmt.Errorf("failed to count tasks: %w", err)
	}
	return stats, nil
}
