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

// TenantService handles tenant business logic
type TenantService struct {
	tenantRepo repository.TenantRepository
	audit      *AuditRecorder
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo repository.TenantRepository, audit *AuditRecorder) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, audit: audit}
}

// TenantDetail is a tenant with its usage counts
type TenantDetail struct {
	Tenant *models.Tenant
	Stats  repository.TenantStats
}

// GetTenant loads a tenant the caller already passed the tenant guard for
func (s *TenantService) GetTenant(ctx context.Context, tenant *models.Tenant) (*TenantDetail, error) {
	stats, err := s.tenantRepo.Stats(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	return &TenantDetail{Tenant: tenant, Stats: stats}, nil
}

// UpdateTenantInput carries the fields present in the request body. A nil
// pointer means the field was absent.
type UpdateTenantInput struct {
	Name             *string
	Status           *models.TenantStatus
	SubscriptionPlan *models.SubscriptionPlan
	MaxUsers         *int
	MaxProjects      *int
}

func (in UpdateTenantInput) hasRestricted() bool {
	return in.Status != nil || in.SubscriptionPlan != nil || in.MaxUsers != nil || in.MaxProjects != nil
}

// UpdateTenant lets a tenant admin rename their tenant and a super admin change
// anything. Changing the plan does not rewrite the limits; those are set
// explicitly.
func (s *TenantService) UpdateTenant(ctx context.Context, actor Actor, tenantID string, input UpdateTenantInput) (*models.Tenant, error) {
	if !actor.IsSuperAdmin() && input.hasRestricted() {
		return nil, ErrRestrictedFields
	}
	if input.Name == nil && !input.hasRestricted() {
		return nil, ErrNothingToUpdate
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		name, err := requireMin("name", *input.Name, constants.MinTenantNameLen)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, invalid("status", "must be one of active, suspended, trial")
		}
		fields["status"] = *input.Status
	}
	if input.SubscriptionPlan != nil {
		if !input.SubscriptionPlan.Valid() {
			return nil, invalid("subscriptionPlan", "must be one of free, pro, enterprise")
		}
		fields["subscription_plan"] = *input.SubscriptionPlan
	}
	if input.MaxUsers != nil {
		if *input.MaxUsers < 1 {
			return nil, invalid("maxUsers", "must be a positive integer")
		}
		fields["max_users"] = *input.MaxUsers
	}
	if input.MaxProjects != nil {
		if *input.MaxProjects < 1 {
			return nil, invalid("maxProjects", "must be a positive integer")
		}
		fields["max_projects"] = *input.MaxProjects
	}

	tenant, err := s.tenantRepo.Update(ctx, tenantID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	s.audit.Record(ctx, entryFor(actor, tenantID, models.ActionUpdateTenant, models.EntityTenant, tenantID))
	return tenant, nil
}

// ListTenantsInput represents filters for listing tenants
type ListTenantsInput struct {
	Status           *models.TenantStatus
	SubscriptionPlan *models.SubscriptionPlan
	Pagination       utils.PaginationParams
}

// ListTenants returns every tenant with usage counts. Only reachable by the
// super admin.
func (s *TenantService) ListTenants(ctx context.Context, input ListTenantsInput) ([]repository.TenantSummary, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, invalid("status", "must be one of active, suspended, trial")
	}
	if input.SubscriptionPlan != nil && !input.SubscriptionPlan.Valid() {
		return nil, 0, invalid("subscriptionPlan", "must be one of free, pro, enterprise")
	}

	return s.tenantRepo.List(ctx, repository.TenantFilter{
		Status:           input.Status,
		SubscriptionPlan: input.SubscriptionPlan,
		Pagination:       input.Pagination,
	})
}
