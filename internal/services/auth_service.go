package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/telemetry"
	"github.com/yukikurage/tenant-task-api/internal/token"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// AuthService handles tenant registration and sign in.
type AuthService struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
	tokens     *token.Service
	audit      *AuditRecorder
	log        *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	tokens *token.Service,
	audit *AuditRecorder,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		tokens:     tokens,
		audit:      audit,
		log:        log,
	}
}

// RegisterTenantInput represents the information needed to open a tenant.
type RegisterTenantInput struct {
	TenantName    string
	Subdomain     string
	AdminEmail    string
	AdminPassword string
	AdminFullName string
	IPAddress     string
}

// RegisterTenant creates a tenant on the free plan together with its first
// tenant admin.
func (s *AuthService) RegisterTenant(ctx context.Context, input RegisterTenantInput) (*models.Tenant, *models.User, error) {
	name, err := requireMin("tenantName", input.TenantName, constants.MinTenantNameLen)
	if err != nil {
		return nil, nil, err
	}
	subdomain, err := requireMin("subdomain", input.Subdomain, constants.MinSubdomainLength)
	if err != nil {
		return nil, nil, err
	}
	email, err := requireEmail("adminEmail", input.AdminEmail)
	if err != nil {
		return nil, nil, err
	}
	if len(input.AdminPassword) < constants.MinPasswordLength {
		return nil, nil, invalid("adminPassword", "must be at least %d characters", constants.MinPasswordLength)
	}
	fullName, err := requireMin("adminFullName", input.AdminFullName, constants.MinFullNameLength)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.tenantRepo.FindBySubdomain(ctx, subdomain); err == nil {
		return nil, nil, ErrSubdomainTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check subdomain: %w", err)
	}

	hash, err := utils.HashPassword(input.AdminPassword)
	if err != nil {
		return nil, nil, err
	}

	limits := models.LimitsFor(models.PlanFree)
	tenant := &models.Tenant{
		Name:             name,
		Subdomain:        subdomain,
		Status:           models.TenantStatusActive,
		SubscriptionPlan: models.PlanFree,
		MaxUsers:         limits.MaxUsers,
		MaxProjects:      limits.MaxProjects,
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         models.RoleTenantAdmin,
		IsActive:     true,
	}

	if err := s.tenantRepo.CreateWithAdmin(ctx, tenant, admin); err != nil {
		// a concurrent registration won the unique index
		if errors.Is(err, repository.ErrCreateTenant) && errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrSubdomainTaken
		}
		return nil, nil, fmt.Errorf("failed to register tenant: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		TenantID:   &tenant.ID,
		UserID:     &admin.ID,
		Action:     models.ActionRegisterTenant,
		EntityType: models.EntityTenant,
		EntityID:   tenant.ID,
		IPAddress:  input.IPAddress,
	})

	s.log.Info("Tenant registered", zap.String("tenant_id", tenant.ID), zap.String("subdomain", tenant.Subdomain))
	return tenant, admin, nil
}

// LoginInput holds the credentials for authentication. TenantID takes
// precedence over TenantSubdomain; with neither only the super admin can
// sign in.
type LoginInput struct {
	Email           string
	Password        string
	TenantID        string
	TenantSubdomain string
	IPAddress       string
}

// LoginResult is a signed-in user and their bearer token
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresIn int64
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	tenantID, err := s.resolveLoginTenant(ctx, input)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindForLogin(ctx, input.Email, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.LoginInvalid).Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, input.Password) {
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.LoginInvalid).Inc()
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.LoginInactive).Inc()
		return nil, ErrAccountInactive
	}

	signed, err := s.tokens.Issue(user.ID, user.TenantID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.LoginSuccess).Inc()
	s.audit.Record(ctx, AuditEntry{
		TenantID:   user.TenantID,
		UserID:     &user.ID,
		Action:     models.ActionLogin,
		EntityType: models.EntityUser,
		EntityID:   user.ID,
		IPAddress:  input.IPAddress,
	})

	return &LoginResult{
		User:      user,
		Token:     signed,
		ExpiresIn: int64(s.tokens.ExpiresIn().Seconds()),
	}, nil
}

func (s *AuthService) resolveLoginTenant(ctx context.Context, input LoginInput) (*string, error) {
	var (
		tenant *models.Tenant
		err    error
	)
	switch {
	case input.TenantID != "":
		tenant, err = s.tenantRepo.FindByID(ctx, input.TenantID)
	case input.TenantSubdomain != "":
		tenant, err = s.tenantRepo.FindBySubdomain(ctx, input.TenantSubdomain)
	default:
		return nil, nil
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.LoginTenantNotFound).Inc()
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	if tenant.Status != models.TenantStatusActive {
		telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.LoginTenantInactive).Inc()
		return nil, ErrTenantInactive
	}
	return &tenant.ID, nil
}

// Me returns the tenant of a signed-in user, or nil for the super admin
func (s *AuthService) Me(ctx context.Context, user *models.User) (*models.Tenant, error) {
	if user.TenantID == nil {
		return nil, nil
	}
	tenant, err := s.tenantRepo.FindByID(ctx, *user.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return tenant, nil
}

// Logout only records the event; tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, actor Actor) {
	userID := actor.UserID
	s.audit.Record(ctx, AuditEntry{
		TenantID:   actor.TenantID,
		UserID:     &userID,
		Action:     models.ActionLogout,
		EntityType: models.EntityUser,
		EntityID:   actor.UserID,
		IPAddress:  actor.IPAddress,
	})
}
