package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// UserService handles tenant membership
type UserService struct {
	userRepo repository.UserRepository
	audit    *AuditRecorder
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, audit *AuditRecorder) *UserService {
	return &UserService{userRepo: userRepo, audit: audit}
}

// AddUserInput represents input for adding a user to a tenant
type AddUserInput struct {
	Email    string
	Password string
	FullName string
	Role     models.UserRole
}

// AddUser creates a member of tenant. The caller must be that tenant's admin
// and the tenant must have room under max_users.
func (s *UserService) AddUser(ctx context.Context, actor Actor, tenant *models.Tenant, input AddUserInput) (*models.User, error) {
	if !actor.AdminOf(tenant.ID) {
		return nil, ErrForbidden
	}

	email, err := requireEmail("email", input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, invalid("password", "must be at least %d characters", constants.MinPasswordLength)
	}
	fullName, err := requireMin("fullName", input.FullName, constants.MinFullNameLength)
	if err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleTenantAdmin {
		return nil, invalid("role", "must be one of user, tenant_admin")
	}

	// read-then-compare; concurrent adds may overshoot the cap
	count, err := s.userRepo.CountByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count >= int64(tenant.MaxUsers) {
		return nil, ErrUserLimitReached
	}

	exists, err := s.userRepo.EmailExists(ctx, tenant.ID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TenantID:     &tenant.ID,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, tenant.ID, models.ActionCreateUser, models.EntityUser, user.ID))
	return user, nil
}

// ListUsersInput represents filters for listing a tenant's users
type ListUsersInput struct {
	Search     string
	Role       *models.UserRole
	Pagination utils.PaginationParams
}

func (s *UserService) ListUsers(ctx context.Context, tenantID string, input ListUsersInput) ([]models.User, int64, error) {
	if input.Role != nil && !input.Role.Valid() {
		return nil, 0, invalid("role", "must be one of super_admin, tenant_admin, user")
	}
	return s.userRepo.List(ctx, repository.UserFilter{
		TenantID:   tenantID,
		Search:     input.Search,
		Role:       input.Role,
		Pagination: input.Pagination,
	})
}

// UpdateUserInput carries the fields present in the request body
type UpdateUserInput struct {
	FullName *string
	Role     *models.UserRole
	IsActive *bool
}

// UpdateUser applies a self-service rename, or an admin change to another
// member of the admin's tenant. On a self update every field but FullName is
// ignored.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, userID string, input UpdateUserInput) (*models.User, error) {
	target, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	action := models.ActionUpdateUser

	if actor.UserID == target.ID {
		if input.FullName == nil {
			return nil, ErrNothingToUpdate
		}
		action = models.ActionUpdateSelf
	} else {
		if target.TenantID == nil || !actor.AdminOf(*target.TenantID) {
			return nil, ErrForbidden
		}
		if input.FullName == nil && input.Role == nil && input.IsActive == nil {
			return nil, ErrNothingToUpdate
		}
		if input.Role != nil {
			if *input.Role != models.RoleUser && *input.Role != models.RoleTenantAdmin {
				return nil, invalid("role", "must be one of user, tenant_admin")
			}
			fields["role"] = *input.Role
		}
		if input.IsActive != nil {
			fields["is_active"] = *input.IsActive
		}
	}

	if input.FullName != nil {
		fullName, err := requireMin("fullName", *input.FullName, constants.MinFullNameLength)
		if err != nil {
			return nil, err
		}
		fields["full_name"] = fullName
	}

	updated, err := s.userRepo.Update(ctx, target.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, tenantOf(target), action, models.EntityUser, target.ID))
	return updated, nil
}

// DeleteUser removes another member of the admin's tenant, unassigning their
// tasks first
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, userID string) error {
	target, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if target.TenantID == nil || !actor.AdminOf(*target.TenantID) {
		return ErrForbidden
	}
	if actor.UserID == target.ID {
		return ErrCannotDeleteSelf
	}

	if err := s.userRepo.DeleteAndUnassign(ctx, target.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, *target.TenantID, models.ActionDeleteUser, models.EntityUser, target.ID))
	return nil
}

func (s *UserService) findUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func tenantOf(user *models.User) string {
	if user.TenantID == nil {
		return ""
	}
	return *user.TenantID
}
