package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindForLogin matches email AND (tenant_id = tenantID OR (tenantID IS NULL AND
// role = super_admin)). The branch is taken here so that no untyped NULL
// parameter reaches the driver.
func (r *GormUserRepository) FindForLogin(ctx context.Context, email string, tenantID *string) (*models.User, error) {
	query := r.db.WithContext(ctx).Where("email = ?", email)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	} else {
		query = query.Where("role = ?", models.RoleSuperAdmin)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) EmailExists(ctx context.Context, tenantID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) BelongsToTenant(ctx context.Context, userID, tenantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND tenant_id = ?", userID, tenantID).
		Count(&count).Error
	return count > 0, err
}

// List retrieves a tenant's users with filtering and pagination
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("users.tenant_id = ?", filter.TenantID).
		Scopes(database.ContainsFold(filter.Search, "users.full_name", "users.email"))
	if filter.Role != nil {
		query = query.Where("users.role = ?", *filter.Role)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := query.
		Order("users.created_at DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Update applies column/value pairs and returns the fresh row
func (r *GormUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	if err := r.db.WithContext(ctx).Model(&models.User{ID: id}).Updates(fields).Error; err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, id)
}

// DeleteAndUnassign nulls assigned_to on the user's tasks, then deletes the user
func (r *GormUserRepository) DeleteAndUnassign(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("assigned_to = ?", id).
			Update("assigned_to", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign tasks: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
