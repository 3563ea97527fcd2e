package database

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

//go:embed seed.yaml
var defaultSeed []byte

type SeedAccount struct {
	Email    string          `yaml:"email"`
	Password string          `yaml:"password"`
	FullName string          `yaml:"fullName"`
	Role     models.UserRole `yaml:"role"`
}

type SeedProject struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type SeedTenant struct {
	Name             string                  `yaml:"name"`
	Subdomain        string                  `yaml:"subdomain"`
	Status           models.TenantStatus     `yaml:"status"`
	SubscriptionPlan models.SubscriptionPlan `yaml:"subscriptionPlan"`
	Admin            SeedAccount             `yaml:"admin"`
	Users            []SeedAccount           `yaml:"users"`
	Projects         []SeedProject           `yaml:"projects"`
}

// Fixtures is the data inserted on first start
type Fixtures struct {
	SuperAdmin SeedAccount  `yaml:"superAdmin"`
	Tenants    []SeedTenant `yaml:"tenants"`
}

// LoadFixtures reads fixtures from path, or the built-in set when path is empty
func LoadFixtures(path string) (*Fixtures, error) {
	data := defaultSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}

	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if fixtures.SuperAdmin.Email == "" || fixtures.SuperAdmin.Password == "" {
		return nil, fmt.Errorf("seed file must define superAdmin email and password")
	}
	return &fixtures, nil
}

// Seed inserts fixtures unless a super admin already exists. It reports whether
// anything was written. All rows are created in one transaction.
func Seed(ctx context.Context, db *gorm.DB, fixtures *Fixtures, log *zap.Logger) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check for super admin: %w", err)
	}
	if count > 0 {
		log.Info("Seed skipped, super admin already present")
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		superAdmin, err := seedUser(fixtures.SuperAdmin, nil, models.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if err := tx.Create(superAdmin).Error; err != nil {
			return fmt.Errorf("failed to create super admin: %w", err)
		}

		for _, t := range fixtures.Tenants {
			if err := seedTenant(tx, t); err != nil {
				return fmt.Errorf("failed to seed tenant %q: %w", t.Subdomain, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info("Seed data inserted", zap.Int("tenants", len(fixtures.Tenants)))
	return true, nil
}

func seedTenant(tx *gorm.DB, t SeedTenant) error {
	plan := t.SubscriptionPlan
	if !plan.Valid() {
		plan = models.PlanFree
	}
	status := t.Status
	if !status.Valid() {
		status = models.TenantStatusActive
	}
	limits := models.LimitsFor(plan)

	tenant := &models.Tenant{
		Name:             t.Name,
		Subdomain:        t.Subdomain,
		Status:           status,
		SubscriptionPlan: plan,
		MaxUsers:         limits.MaxUsers,
		MaxProjects:      limits.MaxProjects,
	}
	if err := tx.Create(tenant).Error; err != nil {
		return err
	}

	admin, err := seedUser(t.Admin, &tenant.ID, models.RoleTenantAdmin)
	if err != nil {
		return err
	}
	if err := tx.Create(admin).Error; err != nil {
		return err
	}

	for _, account := range t.Users {
		role := account.Role
		if role != models.RoleTenantAdmin {
			role = models.RoleUser
		}
		user, err := seedUser(account, &tenant.ID, role)
		if err != nil {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
	}

	for _, p := range t.Projects {
		project := &models.Project{
			TenantID:    tenant.ID,
			Name:        p.Name,
			Description: p.Description,
			Status:      models.ProjectStatusActive,
			CreatedBy:   admin.ID,
		}
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		task := &models.Task{
			ProjectID:   project.ID,
			TenantID:    tenant.ID,
			Title:       "Initial task",
			Description: "Seed task",
			Status:      models.TaskStatusTodo,
			Priority:    models.PriorityMedium,
		}
		if err := tx.Create(task).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUser(account SeedAccount, tenantID *string, role models.UserRole) (*models.User, error) {
	hash, err := utils.HashPassword(account.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password for %s: %w", account.Email, err)
	}
	fullName := account.FullName
	if fullName == "" {
		fullName = "User"
	}
	return &models.User{
		TenantID:     tenantID,
		Email:        account.Email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}, nil
}
