package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("repository: duplicate record")
)

// translate maps GORM errors onto the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	// CreateWithAdmin creates a tenant and its first admin in one transaction
	CreateWithAdmin(ctx context.Context, tenant *models.Tenant, admin *models.User) error

	FindByID(ctx context.Context, id string) (*models.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)

	// Update applies column/value pairs and returns the fresh row
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Tenant, error)

	// List retrieves tenants with per-tenant counts, newest first
	List(ctx context.Context, filter TenantFilter) ([]TenantSummary, int64, error)

	// Stats counts the users, projects and tasks owned by a tenant
	Stats(ctx context.Context, id string) (TenantStats, error)
}

// TenantFilter holds filtering options for listing tenants
type TenantFilter struct {
	Status           *models.TenantStatus
	SubscriptionPlan *models.SubscriptionPlan
	Pagination       utils.PaginationParams
}

// TenantSummary is a tenant row with its usage counts
type TenantSummary struct {
	models.Tenant
	TotalUsers    int64
	TotalProjects int64
}

type TenantStats struct {
	TotalUsers    int64
	TotalProjects int64
	TotalTasks    int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindForLogin finds the account an email may log in as. With a tenant it
	// matches tenant members only; without one it matches the super admin only.
	FindForLogin(ctx context.Context, email string, tenantID *string) (*models.User, error)

	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	EmailExists(ctx context.Context, tenantID, email string) (bool, error)

	// BelongsToTenant reports whether userID is a member of tenantID
	BelongsToTenant(ctx context.Context, userID, tenantID string) (bool, error)

	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)

	// DeleteAndUnassign clears the user's task assignments and deletes the row
	// in one transaction
	DeleteAndUnassign(ctx context.Context, id string) error
}

// UserFilter holds filtering options for listing users of a tenant
type UserFilter struct {
	TenantID   string
	Search     string
	Role       *models.UserRole
	Pagination utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	List(ctx context.Context, filter ProjectFilter) ([]ProjectSummary, int64, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Project, error)

	// Delete removes the project together with its tasks
	Delete(ctx context.Context, id string) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	TenantID   string
	Status     *models.ProjectStatus
	Search     string
	Pagination utils.PaginationParams
}

// ProjectSummary is a project row with its creator name and task counts.
// CreatorName is nil when the creator no longer exists.
type ProjectSummary struct {
	models.Project
	CreatorName        *string
	TaskCount          int64
	CompletedTaskCount int64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task and its assignee
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves a project's tasks by priority, then due date with
	// undated tasks last
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Task, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  string
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *string
	Search     string
	Pagination utils.PaginationParams
}

// AuditRepository appends audit entries
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}
