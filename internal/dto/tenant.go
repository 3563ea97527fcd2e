package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// TenantDTO represents a tenant in API responses
type TenantDTO struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Subdomain        string                  `json:"subdomain"`
	Status           models.TenantStatus     `json:"status"`
	SubscriptionPlan models.SubscriptionPlan `json:"subscriptionPlan"`
	MaxUsers         int                     `json:"maxUsers"`
	MaxProjects      int                     `json:"maxProjects"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// TenantStatsDTO holds a tenant's usage counts
type TenantStatsDTO struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalProjects int64 `json:"totalProjects"`
	TotalTasks    int64 `json:"totalTasks"`
}

// TenantDetailDTO is a tenant together with its usage
type TenantDetailDTO struct {
	TenantDTO
	Stats TenantStatsDTO `json:"stats"`
}

// TenantSummaryDTO is a tenant row of the super admin listing
type TenantSummaryDTO struct {
	TenantDTO
	TotalUsers    int64 `json:"totalUsers"`
	TotalProjects int64 `json:"totalProjects"`
}

// TenantListResponse represents a page of tenants
type TenantListResponse struct {
	Tenants    []TenantSummaryDTO       `json:"tenants"`
	Total      int64                    `json:"total"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTenantDTO converts a Tenant model to TenantDTO
func ToTenantDTO(tenant *models.Tenant) TenantDTO {
	return TenantDTO{
		ID:               tenant.ID,
		Name:             tenant.Name,
		Subdomain:        tenant.Subdomain,
		Status:           tenant.Status,
		SubscriptionPlan: tenant.SubscriptionPlan,
		MaxUsers:         tenant.MaxUsers,
		MaxProjects:      tenant.MaxProjects,
		CreatedAt:        tenant.CreatedAt,
		UpdatedAt:        tenant.UpdatedAt,
	}
}

func ToTenantDetailDTO(tenant *models.Tenant, stats repository.TenantStats) TenantDetailDTO {
	return TenantDetailDTO{
		TenantDTO: ToTenantDTO(tenant),
		Stats: TenantStatsDTO{
			TotalUsers:    stats.TotalUsers,
			TotalProjects: stats.TotalProjects,
			TotalTasks:    stats.TotalTasks,
		},
	}
}

func ToTenantListResponse(tenants []repository.TenantSummary, total int64, params utils.PaginationParams) TenantListResponse {
	items := make([]TenantSummaryDTO, len(tenants))
	for i := range tenants {
		items[i] = TenantSummaryDTO{
			TenantDTO:     ToTenantDTO(&tenants[i].Tenant),
			TotalUsers:    tenants[i].TotalUsers,
			TotalProjects: tenants[i].TotalProjects,
		}
	}
	return TenantListResponse{
		Tenants:    items,
		Total:      total,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
